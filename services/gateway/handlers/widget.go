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

// HandleGetWidgetConfig returns the tenant's widget embed settings,
// filling theme gaps from the gateway's default theme.
func HandleGetWidgetConfig(cp *controlplane.Client, defaults datatypes.WidgetTheme) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		cfg, err := cp.GetWidgetConfig(c.Request.Context(), identity.TenantID)
		if err != nil {
			respondUpstreamError(c, err, "Failed to fetch widget config")
			return
		}
		applyThemeDefaults(&cfg.Theme, defaults)
		c.JSON(http.StatusOK, cfg)
	}
}

// HandleUpdateWidgetConfig writes widget embed settings.
func HandleUpdateWidgetConfig(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var cfg datatypes.WidgetConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget config"})
			return
		}
		if err := cfg.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget config"})
			return
		}

		updated, err := cp.UpdateWidgetConfig(c.Request.Context(), identity.TenantID, cfg)
		if err != nil {
			respondUpstreamError(c, err, "Failed to update widget config")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// HandleRotateWidgetKey issues a new site key, invalidating the old
// one. Retrying a rotation is safe; each call simply issues a fresh key.
func HandleRotateWidgetKey(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		resp, err := cp.RotateWidgetKey(c.Request.Context(), identity.TenantID)
		if err != nil {
			respondUpstreamError(c, err, "Failed to rotate widget key")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func applyThemeDefaults(theme *datatypes.WidgetTheme, defaults datatypes.WidgetTheme) {
	if theme.PrimaryColor == "" {
		theme.PrimaryColor = defaults.PrimaryColor
	}
	if theme.Position == "" {
		theme.Position = defaults.Position
	}
	if theme.LauncherIcon == "" {
		theme.LauncherIcon = defaults.LauncherIcon
	}
}
