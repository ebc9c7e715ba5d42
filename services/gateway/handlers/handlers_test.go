// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testIdentity = datatypes.Identity{
	UserID:   "user-1",
	TenantID: "tenant-1",
	Email:    "owner@example.com",
}

// injectIdentity stands in for the auth middleware in handler tests.
func injectIdentity(c *gin.Context) {
	middleware.SetIdentity(c, testIdentity)
}

// newUpstream is a fake control plane; the returned client points at it.
func newUpstream(t *testing.T, handler http.HandlerFunc) *controlplane.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return controlplane.New(server.URL, "tenant-key", "internal-key")
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
