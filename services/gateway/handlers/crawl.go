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
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
)

// crawlRequest is the optional enqueue payload. Site existence is not
// validated here; the control plane answers for a siteless tenant.
type crawlRequest struct {
	SiteID string `json:"site_id,omitempty"`
}

// HandleRunCrawl enqueues a crawl and acknowledges immediately with the
// job id. It never waits for completion.
func HandleRunCrawl(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var req crawlRequest
		_ = c.ShouldBindJSON(&req) // body is optional

		resp, err := cp.RunCrawl(c.Request.Context(), identity.TenantID, req.SiteID)
		if err != nil {
			respondUpstreamError(c, err, "Failed to start crawl")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleGetCrawlStatus is the polling read for the tenant's most recent
// crawl, optionally narrowed with ?site_id=.
func HandleGetCrawlStatus(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		job, err := cp.GetCrawlStatus(c.Request.Context(), identity.TenantID, c.Query("site_id"))
		if err != nil {
			respondUpstreamError(c, err, "Failed to fetch crawl status")
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

// HandleGetCrawlStatusByJob reads one job by id.
func HandleGetCrawlStatusByJob(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		job, err := cp.GetCrawlStatusByJob(c.Request.Context(), identity.TenantID, c.Param("jobId"))
		if err != nil {
			respondUpstreamError(c, err, "Failed to fetch crawl status")
			return
		}
		c.JSON(http.StatusOK, job)
	}
}
