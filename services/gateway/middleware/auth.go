// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the gateway service.
//
// The auth middleware extracts a bearer token from the Authorization
// header, validates it as a gateway JWT, and stores the resulting
// Identity in the Gin context for downstream handlers.
//
//	Request
//	   │
//	   ▼
//	AuthMiddleware
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► auth.ValidateToken(secret, token)
//	   │
//	   └─► Store Identity in context
//	           │
//	           ▼
//	       Handler (retrieves via GetIdentity)
//
// Tenant-scoped routes additionally require the identity to carry a
// tenant id; RequireTenant rejects tokens without one so that no
// tenant-scoped handler ever runs with an empty tenant.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/pkg/auth"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// =============================================================================
// Context Keys
// =============================================================================

// identityKey is the context key for the authenticated identity.
const identityKey = "tenantbridge_identity"

// =============================================================================
// Context Helpers
// =============================================================================

// SetIdentity stores the authenticated identity in the Gin context.
// Called by AuthMiddleware after successful validation; exported so
// tests can install an identity without minting a token.
func SetIdentity(c *gin.Context, identity datatypes.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity retrieves the authenticated identity from the Gin
// context. The second return is false when AuthMiddleware did not run
// or rejected the request.
func GetIdentity(c *gin.Context) (datatypes.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return datatypes.Identity{}, false
	}
	identity, ok := value.(datatypes.Identity)
	return identity, ok
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware validates the request's bearer token against the
// gateway JWT secret and stores the decoded identity in the context.
// A missing, malformed, expired, or otherwise invalid token aborts the
// request with 401; the response body never says which check failed.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		claims, err := auth.ValidateToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		SetIdentity(c, datatypes.Identity{
			UserID:   claims.UserID,
			TenantID: claims.TenantID,
			Email:    claims.Email,
		})
		c.Next()
	}
}

// RequireTenant aborts with 400 when the authenticated identity has no
// tenant id, before any upstream call. Must run after AuthMiddleware.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.TenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "no tenant associated with this account",
			})
			return
		}
		c.Next()
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

// extractBearerToken parses the Authorization header, expecting
// "Bearer <token>". The prefix is case-insensitive per RFC 7235.
// Returns "" when the header is missing or malformed.
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
