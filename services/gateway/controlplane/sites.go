// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controlplane

import (
	"context"
	"errors"
	"net/http"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// GetPrimarySite fetches the tenant's primary site record using the
// internal service credential. A 404 surfaces as *UpstreamError with
// NotFound() true; the caller decides whether that is an error.
func (c *Client) GetPrimarySite(ctx context.Context, tenantID string) (*datatypes.Site, error) {
	var site datatypes.Site
	err := c.call(ctx, authInternal, "tenants", http.MethodGet,
		"/internal/tenants/"+tenantID+"/sites/primary", nil, nil, &site, tenantID)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// UpsertSite creates or updates the tenant's site record. It first
// probes for an existing primary site (404 tolerated as "none"), then
// PUTs when found and POSTs otherwise.
func (c *Client) UpsertSite(ctx context.Context, tenantID string, req datatypes.UpsertSiteRequest) (*datatypes.Site, error) {
	var existing *datatypes.Site
	probe, err := c.GetPrimarySite(ctx, tenantID)
	switch {
	case err == nil:
		existing = probe
	default:
		var upErr *UpstreamError
		if !errors.As(err, &upErr) || !upErr.NotFound() {
			return nil, err
		}
	}

	payload := datatypes.UpsertSiteRequest{
		BaseURL:    req.BaseURL,
		SitemapURL: req.SitemapURL,
		CrawlRules: req.CrawlRules,
	}

	var saved datatypes.Site
	if existing != nil && existing.ID != "" {
		err = c.call(ctx, authTenant, "sites", http.MethodPut,
			"/api/sites/"+existing.ID, nil, payload, &saved, tenantID)
	} else {
		err = c.call(ctx, authTenant, "sites", http.MethodPost,
			"/api/sites", nil, payload, &saved, tenantID)
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
