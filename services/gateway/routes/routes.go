// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/convostore"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/handlers"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
	"github.com/chatsite/tenantbridge/services/gateway/sitecontext"
	"github.com/chatsite/tenantbridge/services/gateway/tenantdir"
)

// Deps carries everything the route surface needs. Pager and Assembler
// may be nil when their backing store/index is not configured; the
// corresponding routes then answer with a fixed unavailable message.
type Deps struct {
	ControlPlane *controlplane.Client
	Directory    *tenantdir.Directory
	Pager        *convostore.Pager
	Assembler    *sitecontext.Assembler
	JWTSecret    []byte
	WidgetTheme  datatypes.WidgetTheme
	Registry     *prometheus.Registry
}

// SetupRoutes registers the full gateway surface:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/tenant/site                       POST /api/tenant/site
//	POST /api/tenant/crawl
//	GET  /api/tenant/crawl/status[/:jobId]
//	POST /api/tenant/billing/checkout
//	GET  /api/tenant/actions                    POST /api/tenant/actions/discover
//	GET  /api/tenant/widget/config              PUT  /api/tenant/widget/config
//	POST /api/tenant/widget/config/rotate-key
//	GET  /api/tenant/conversations
//	POST /api/internal/context
//
// Everything under /api requires a valid JWT; /api/tenant additionally
// requires the identity to carry a tenant.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.JWTSecret))

	tenant := api.Group("/tenant")
	tenant.Use(middleware.RequireTenant())
	{
		tenant.GET("/site", handlers.HandleGetSite(deps.ControlPlane))
		tenant.POST("/site", handlers.HandleUpsertSite(deps.ControlPlane, deps.Directory))

		tenant.POST("/crawl", handlers.HandleRunCrawl(deps.ControlPlane))
		tenant.GET("/crawl/status", handlers.HandleGetCrawlStatus(deps.ControlPlane))
		tenant.GET("/crawl/status/:jobId", handlers.HandleGetCrawlStatusByJob(deps.ControlPlane))

		tenant.POST("/billing/checkout", handlers.HandleBillingCheckout(deps.ControlPlane))

		tenant.GET("/actions", handlers.HandleListActions(deps.ControlPlane))
		tenant.POST("/actions/discover", handlers.HandleDiscoverActions(deps.ControlPlane))

		widget := tenant.Group("/widget")
		{
			widget.GET("/config", handlers.HandleGetWidgetConfig(deps.ControlPlane, deps.WidgetTheme))
			widget.PUT("/config", handlers.HandleUpdateWidgetConfig(deps.ControlPlane))
			widget.POST("/config/rotate-key", handlers.HandleRotateWidgetKey(deps.ControlPlane))
		}

		if deps.Pager != nil {
			tenant.GET("/conversations", handlers.HandleListConversations(deps.Pager))
		}
	}

	// Internal surface for the chat subsystem. Grounding lookups carry
	// the end user's token, so the same auth middleware applies, but a
	// tenantless identity is fine here (BuildContext fails open).
	internal := api.Group("/internal")
	{
		if deps.Assembler != nil {
			internal.POST("/context", handlers.HandleAssembleContext(deps.Assembler))
		}
	}
}
