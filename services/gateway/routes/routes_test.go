// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatsite/tenantbridge/pkg/auth"
	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	router := gin.New()
	SetupRoutes(router, Deps{
		ControlPlane: controlplane.New(server.URL, "tenant-key", "internal-key"),
		JWTSecret:    testSecret,
		Registry:     prometheus.NewRegistry(),
	})
	return router
}

func bearerFor(t *testing.T, tenantID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, &auth.Claims{UserID: "user-1", TenantID: tenantID}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthAndMetricsAreUnauthenticated(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantRoutesRequireToken(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unauthenticated request must not reach the upstream")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/tenant/site", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantRoutesRequireTenant(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("a tenantless identity must not reach the upstream")
	})

	req := httptest.NewRequest("POST", "/api/tenant/crawl", nil)
	req.Header.Set("Authorization", bearerFor(t, ""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantRouteProxiesWithValidToken(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tenant-1", r.Header.Get("X-Tenant-ID"))
		w.Write([]byte(`{"job_id":"job-1","status":"queued"}`))
	})

	req := httptest.NewRequest("POST", "/api/tenant/crawl", nil)
	req.Header.Set("Authorization", bearerFor(t, "tenant-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "job-1")
}

func TestConversationsRouteAbsentWithoutStore(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/api/tenant/conversations", nil)
	req.Header.Set("Authorization", bearerFor(t, "tenant-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "no conversation store configured, route not registered")
}
