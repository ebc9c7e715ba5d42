// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics cover the two classes of remote work the gateway performs:
// control-plane proxy calls and retrieval-context assembly. All metric
// operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "tenantbridge"

// GatewayMetrics holds all Prometheus metrics for the gateway service.
// Initialize once at startup via NewGatewayMetrics.
type GatewayMetrics struct {
	// UpstreamRequestsTotal counts control-plane calls.
	// Labels: endpoint (sites, crawl, actions, widget, billing, tenants),
	// status (2xx/4xx/5xx bucket or "error" for transport failures).
	UpstreamRequestsTotal *prometheus.CounterVec

	// UpstreamDurationSeconds measures control-plane call latency.
	// Labels: endpoint.
	UpstreamDurationSeconds *prometheus.HistogramVec

	// ContextAssemblyTotal counts context-assembly outcomes.
	// Labels: outcome (disabled, empty_query, no_site, no_sources, ok, error).
	ContextAssemblyTotal *prometheus.CounterVec

	// SiteCacheTotal counts TenantDirectory cache lookups.
	// Labels: result (hit, miss).
	SiteCacheTotal *prometheus.CounterVec
}

// NewGatewayMetrics creates and registers all gateway metrics with the
// provided registerer. Pass prometheus.DefaultRegisterer in production;
// tests should pass a fresh registry to avoid duplicate registration.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)

	return &GatewayMetrics{
		UpstreamRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Control-plane requests by endpoint and status bucket.",
		}, []string{"endpoint", "status"}),

		UpstreamDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "duration_seconds",
			Help:      "Control-plane request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		ContextAssemblyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sitecontext",
			Name:      "assembly_total",
			Help:      "Context assembly outcomes.",
		}, []string{"outcome"}),

		SiteCacheTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tenantdir",
			Name:      "cache_total",
			Help:      "Primary-site cache lookups.",
		}, []string{"result"}),
	}
}

// ObserveUpstream records one control-plane call.
func (m *GatewayMetrics) ObserveUpstream(endpoint, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.UpstreamDurationSeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveContextAssembly records one context-assembly outcome.
func (m *GatewayMetrics) ObserveContextAssembly(outcome string) {
	if m == nil {
		return
	}
	m.ContextAssemblyTotal.WithLabelValues(outcome).Inc()
}

// ObserveSiteCache records one TenantDirectory cache lookup.
func (m *GatewayMetrics) ObserveSiteCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SiteCacheTotal.WithLabelValues(result).Inc()
}
