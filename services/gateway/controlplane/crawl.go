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

	"github.com/chatsite/tenantbridge/pkg/validation"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// RunCrawl enqueues a crawl for the tenant's site and returns
// immediately with the job acknowledgement. It never blocks for
// completion, and it does not validate site existence locally; the
// control plane's answer is authoritative. Duplicate calls create
// duplicate remote jobs; deduplication is the remote worker's concern.
func (c *Client) RunCrawl(ctx context.Context, tenantID, siteID string) (*datatypes.RunCrawlResponse, error) {
	body := datatypes.RunCrawlRequest{TenantID: tenantID, SiteID: siteID}
	var ack datatypes.RunCrawlResponse
	err := c.call(ctx, authTenant, "crawl", http.MethodPost,
		"/api/crawl/run", nil, body, &ack, tenantID)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// GetCrawlStatus polls the latest crawl job for the tenant, optionally
// scoped to one site. Read-only; no side effects.
func (c *Client) GetCrawlStatus(ctx context.Context, tenantID, siteID string) (*datatypes.CrawlJob, error) {
	query := url.Values{}
	if siteID != "" {
		query.Set("site_id", siteID)
	}
	var job datatypes.CrawlJob
	err := c.call(ctx, authTenant, "crawl", http.MethodGet,
		"/api/crawl/status", query, nil, &job, tenantID)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetCrawlStatusByJob polls one specific job by id.
func (c *Client) GetCrawlStatusByJob(ctx context.Context, tenantID, jobID string) (*datatypes.CrawlJob, error) {
	if jobID == "" {
		return nil, ErrMissingJobID
	}
	if err := validation.ValidateJobID(jobID); err != nil {
		return nil, ErrInvalidJobID
	}
	var job datatypes.CrawlJob
	err := c.call(ctx, authTenant, "crawl", http.MethodGet,
		"/api/crawl/status/"+jobID, nil, nil, &job, tenantID)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
