// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayMetrics_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)
	require.NotNil(t, m)

	m.ObserveUpstream("crawl", "2xx", 120*time.Millisecond)
	m.ObserveUpstream("crawl", "2xx", 80*time.Millisecond)
	m.ObserveUpstream("widget", "4xx", 10*time.Millisecond)
	m.ObserveContextAssembly("ok")
	m.ObserveSiteCache(true)
	m.ObserveSiteCache(false)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("crawl", "2xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("widget", "4xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ContextAssemblyTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.SiteCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.SiteCacheTotal.WithLabelValues("miss")))
}

func TestGatewayMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *GatewayMetrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("sites", "error", time.Second)
		m.ObserveContextAssembly("disabled")
		m.ObserveSiteCache(false)
	})
}
