// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatsite/tenantbridge/pkg/auth"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func mintToken(t *testing.T, tenantID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, &auth.Claims{
		UserID:   "user-1",
		TenantID: tenantID,
		Email:    "user@example.com",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

// newAuthRouter wires AuthMiddleware in front of a probe handler that
// echoes the identity it sees.
func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, identity)
	})
	router.GET("/probe", handlers...)
	return router
}

// =============================================================================
// extractBearerToken Tests
// =============================================================================

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer abc123", "abc123"},
		{"case insensitive prefix", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"no bearer prefix", "abc123", ""},
		{"basic auth", "Basic abc123", ""},
		{"empty bearer", "Bearer ", ""},
		{"only bearer", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(c))
		})
	}
}

// =============================================================================
// AuthMiddleware Tests
// =============================================================================

func TestAuthMiddleware_ValidTokenSetsIdentity(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "tenant-1"))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-1")
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_MissingTokenRejected(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageTokenRejected(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized",
		"the response must not reveal which validation step failed")
}

func TestAuthMiddleware_WrongSecretRejected(t *testing.T) {
	other, err := auth.GenerateToken([]byte("ffffffffffffffffffffffffffffffff"), &auth.Claims{
		UserID: "user-1",
	}, time.Hour)
	require.NoError(t, err)

	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// =============================================================================
// RequireTenant Tests
// =============================================================================

func TestRequireTenant_PassesWithTenant(t *testing.T) {
	router := newAuthRouter(RequireTenant())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "tenant-1"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTenant_RejectsTenantlessIdentity(t *testing.T) {
	router := newAuthRouter(RequireTenant())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, ""))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no tenant associated")
}

// =============================================================================
// Context Helper Tests
// =============================================================================

func TestGetIdentity_AbsentWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetIdentity(c)
	assert.False(t, ok)
}

func TestSetIdentity_RoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetIdentity(c, datatypes.Identity{UserID: "u", TenantID: "t"})
	identity, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, "u", identity.UserID)
	assert.Equal(t, "t", identity.TenantID)
}
