// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controlplane

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// DiscoverActions enqueues action discovery for a URL on the tenant's
// site. The URL is mandatory and rejected locally before any network
// call; the returned acknowledgement carries the discovery job id.
func (c *Client) DiscoverActions(ctx context.Context, tenantID string, req datatypes.DiscoverActionsRequest) (*datatypes.RunCrawlResponse, error) {
	if req.URL == "" {
		return nil, ErrMissingURL
	}
	var ack datatypes.RunCrawlResponse
	err := c.call(ctx, authTenant, "actions", http.MethodPost,
		"/api/actions/discover", nil, req, &ack, tenantID)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// ListActions reads previously discovered actions, optionally filtered
// by site and page URL.
func (c *Client) ListActions(ctx context.Context, tenantID, siteID, pageURL string) ([]datatypes.TenantAction, error) {
	query := url.Values{}
	if siteID != "" {
		query.Set("site_id", siteID)
	}
	if pageURL != "" {
		query.Set("url", pageURL)
	}
	var actions []datatypes.TenantAction
	err := c.call(ctx, authTenant, "actions", http.MethodGet,
		"/api/actions", query, nil, &actions, tenantID)
	if err != nil {
		return nil, err
	}
	return actions, nil
}
