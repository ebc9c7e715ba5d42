// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tenantdir resolves a tenant to its primary site record and
// caches the mapping with a fixed TTL.
//
// The cache is owned by the Directory value, not a package global, with
// an injectable clock so expiry is testable. It is unbounded, which is
// acceptable while tenant counts stay small; add eviction before
// pointing this at a large fleet.
package tenantdir

import (
	"context"
	"sync"
	"time"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/observability"
)

// DefaultTTL is how long a cached tenant->site mapping stays fresh.
const DefaultTTL = 5 * time.Minute

// DefaultLookupTimeout bounds the control-plane lookup on a cache miss.
const DefaultLookupTimeout = 8 * time.Second

// SiteFetcher is the slice of the control-plane client the directory
// needs. *controlplane.Client satisfies it.
type SiteFetcher interface {
	GetPrimarySite(ctx context.Context, tenantID string) (*datatypes.Site, error)
	InternalConfigured() bool
}

// Directory caches tenant->primary-site mappings. Safe for concurrent
// use; two requests racing on the same cold tenant may both fetch, and
// the idempotent overwrite makes that harmless.
type Directory struct {
	fetcher       SiteFetcher
	ttl           time.Duration
	lookupTimeout time.Duration
	now           func() time.Time
	metrics       *observability.GatewayMetrics

	mu    sync.RWMutex
	cache map[string]datatypes.TenantSiteRef
}

// Option configures a Directory.
type Option func(*Directory)

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) { d.ttl = ttl }
}

// WithClock injects the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithLookupTimeout overrides the per-lookup timeout.
func WithLookupTimeout(timeout time.Duration) Option {
	return func(d *Directory) { d.lookupTimeout = timeout }
}

// WithMetrics attaches gateway metrics; nil is tolerated.
func WithMetrics(m *observability.GatewayMetrics) Option {
	return func(d *Directory) { d.metrics = m }
}

// New builds a Directory backed by the given fetcher.
func New(fetcher SiteFetcher, opts ...Option) *Directory {
	d := &Directory{
		fetcher:       fetcher,
		ttl:           DefaultTTL,
		lookupTimeout: DefaultLookupTimeout,
		now:           time.Now,
		cache:         make(map[string]datatypes.TenantSiteRef),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolvePrimarySite returns the tenant's primary site reference.
//
// A nil ref with a nil error means the control plane is not configured:
// the feature is disabled, which is not a failure. Lookup errors
// propagate unretried; callers decide whether to degrade gracefully.
func (d *Directory) ResolvePrimarySite(ctx context.Context, tenantID string) (*datatypes.TenantSiteRef, error) {
	if !d.fetcher.InternalConfigured() {
		return nil, nil
	}

	if ref, ok := d.lookup(tenantID); ok {
		d.metrics.ObserveSiteCache(true)
		return &ref, nil
	}
	d.metrics.ObserveSiteCache(false)

	ctx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	site, err := d.fetcher.GetPrimarySite(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if site == nil || site.ID == "" {
		return nil, nil
	}

	ref := datatypes.TenantSiteRef{
		TenantID: tenantID,
		SiteID:   site.ID,
		BaseURL:  site.BaseURL,
		CachedAt: d.now(),
	}
	d.store(ref)
	return &ref, nil
}

// Store caches a freshly saved site record, replacing any stale entry.
// Called after a site upsert so the next context assembly sees the new
// site without waiting out the TTL.
func (d *Directory) Store(tenantID string, site *datatypes.Site) {
	if site == nil || site.ID == "" {
		return
	}
	d.store(datatypes.TenantSiteRef{
		TenantID: tenantID,
		SiteID:   site.ID,
		BaseURL:  site.BaseURL,
		CachedAt: d.now(),
	})
}

// Invalidate drops the cached mapping for a tenant.
func (d *Directory) Invalidate(tenantID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.cache, tenantID)
}

func (d *Directory) lookup(tenantID string) (datatypes.TenantSiteRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ref, ok := d.cache[tenantID]
	if !ok {
		return datatypes.TenantSiteRef{}, false
	}
	if d.now().Sub(ref.CachedAt) >= d.ttl {
		return datatypes.TenantSiteRef{}, false
	}
	return ref, true
}

func (d *Directory) store(ref datatypes.TenantSiteRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[ref.TenantID] = ref
}
