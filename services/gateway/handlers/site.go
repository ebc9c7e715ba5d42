// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
	"github.com/chatsite/tenantbridge/services/gateway/tenantdir"
)

// HandleGetSite returns the tenant's primary site record.
func HandleGetSite(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		site, err := cp.GetPrimarySite(c.Request.Context(), identity.TenantID)
		if err != nil {
			var upstream *controlplane.UpstreamError
			if errors.As(err, &upstream) && upstream.NotFound() {
				c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
				return
			}
			respondUpstreamError(c, err, "Failed to fetch site")
			return
		}
		if site == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusOK, site)
	}
}

// HandleUpsertSite creates or updates the tenant's site on the control
// plane and refreshes the local site cache, so retrieval picks up a new
// site without waiting out the cache TTL.
func HandleUpsertSite(cp *controlplane.Client, dir *tenantdir.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var req datatypes.UpsertSiteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "base_url is required"})
			return
		}

		site, err := cp.UpsertSite(c.Request.Context(), identity.TenantID, req)
		if err != nil {
			respondUpstreamError(c, err, "Failed to save site")
			return
		}
		if dir != nil {
			dir.Store(identity.TenantID, site)
		}
		c.JSON(http.StatusOK, site)
	}
}
