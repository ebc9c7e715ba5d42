// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRunCrawl_AcknowledgesImmediately(t *testing.T) {
	cp := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tenant-1", body["tenant_id"])
		assert.Equal(t, "site-1", body["site_id"])
		w.Write([]byte(`{"job_id":"job-7","status":"queued"}`))
	})
	router := gin.New()
	router.POST("/crawl", injectIdentity, HandleRunCrawl(cp))

	req := httptest.NewRequest("POST", "/crawl", strings.NewReader(`{"site_id":"site-1"}`))
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "job-7")
	assert.Contains(t, w.Body.String(), "queued")
}

func TestHandleRunCrawl_BodyIsOptional(t *testing.T) {
	cp := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"job_id":"job-8","status":"queued"}`))
	})
	router := gin.New()
	router.POST("/crawl", injectIdentity, HandleRunCrawl(cp))

	w := serve(router, httptest.NewRequest("POST", "/crawl", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleRunCrawl_SitelessTenantGetsUpstreamAnswer(t *testing.T) {
	// Site existence is the control plane's call, not ours.
	cp := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"tenant has no site"}`, http.StatusConflict)
	})
	router := gin.New()
	router.POST("/crawl", injectIdentity, HandleRunCrawl(cp))

	w := serve(router, httptest.NewRequest("POST", "/crawl", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "tenant has no site")
}

func TestHandleGetCrawlStatus_ForwardsSiteFilter(t *testing.T) {
	cp := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "site-1", r.URL.Query().Get("site_id"))
		w.Write([]byte(`{"job_id":"job-7","status":"running","phase":"crawling"}`))
	})
	router := gin.New()
	router.GET("/crawl/status", injectIdentity, HandleGetCrawlStatus(cp))

	w := serve(router, httptest.NewRequest("GET", "/crawl/status?site_id=site-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestHandleGetCrawlStatusByJob(t *testing.T) {
	cp := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/job-7"))
		w.Write([]byte(`{"job_id":"job-7","status":"succeeded"}`))
	})
	router := gin.New()
	router.GET("/crawl/status/:jobId", injectIdentity, HandleGetCrawlStatusByJob(cp))

	w := serve(router, httptest.NewRequest("GET", "/crawl/status/job-7", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "succeeded")
}
