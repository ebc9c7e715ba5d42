// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the gateway's HTTP surface: the
// tenant-facing proxy routes in front of the control plane and the
// conversation listing endpoint.
//
// One error mapping policy applies to every proxy route: control-plane
// 4xx responses pass through with the upstream's status and message,
// everything else (network failures, 5xx) collapses to a 502 with a
// route-specific generic message so upstream internals never reach the
// caller.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
)

// respondUpstreamError applies the uniform proxy error mapping.
// fallback is the generic message used for anything that is not a
// control-plane 4xx.
func respondUpstreamError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, controlplane.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Control plane not configured"})
		return
	}
	if errors.Is(err, controlplane.ErrMissingTenant) || errors.Is(err, controlplane.ErrInvalidTenant) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no tenant associated with this account"})
		return
	}
	if errors.Is(err, controlplane.ErrMissingURL) ||
		errors.Is(err, controlplane.ErrMissingJobID) ||
		errors.Is(err, controlplane.ErrInvalidJobID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var upstream *controlplane.UpstreamError
	if errors.As(err, &upstream) && upstream.ClientError() {
		c.JSON(upstream.StatusCode, gin.H{"error": upstream.Message})
		return
	}

	slog.Error("control plane call failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}
