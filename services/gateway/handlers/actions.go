// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
)

// HandleDiscoverActions enqueues action discovery for a page URL. The
// URL is validated here, before anything touches the network.
func HandleDiscoverActions(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var req datatypes.DiscoverActionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}

		resp, err := cp.DiscoverActions(c.Request.Context(), identity.TenantID, req)
		if err != nil {
			respondUpstreamError(c, err, "Failed to start action discovery")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleListActions returns previously discovered actions, optionally
// filtered with ?site_id= and ?url=.
func HandleListActions(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		actions, err := cp.ListActions(c.Request.Context(), identity.TenantID, c.Query("site_id"), c.Query("url"))
		if err != nil {
			respondUpstreamError(c, err, "Failed to list actions")
			return
		}
		if actions == nil {
			actions = []datatypes.TenantAction{}
		}
		c.JSON(http.StatusOK, gin.H{"actions": actions})
	}
}
