// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the domain types shared across the gateway:
// tenant site records, crawl jobs and their derived progress, discovered
// actions, widget configuration, conversations, and retrieval documents.
//
// All wire-facing types carry snake_case JSON tags matching the control
// plane API contract; conversation types additionally carry bson tags for
// the Mongo store.
package datatypes

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// =============================================================================
// Sites
// =============================================================================

// Site is a tenant's site record as owned by the control plane. The
// gateway never mutates it locally; it only proxies reads and writes.
type Site struct {
	ID         string      `json:"id"`
	TenantID   string      `json:"tenant_id,omitempty"`
	BaseURL    string      `json:"base_url"`
	SitemapURL string      `json:"sitemap_url,omitempty"`
	CrawlRules *CrawlRules `json:"crawl_rules,omitempty"`
	CreatedAt  *time.Time  `json:"created_at,omitempty"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

// CrawlRules narrows what the remote crawler visits for a site.
type CrawlRules struct {
	IncludePaths []string `json:"include_paths,omitempty"`
	ExcludePaths []string `json:"exclude_paths,omitempty"`
	MaxPages     int      `json:"max_pages,omitempty"`
}

// TenantSiteRef is the cached mapping from a tenant to its primary site.
// Immutable once cached; invalidated by TTL expiry or explicit upsert.
type TenantSiteRef struct {
	TenantID string
	SiteID   string
	BaseURL  string
	CachedAt time.Time
}

// UpsertSiteRequest is the payload accepted by the site save operation.
type UpsertSiteRequest struct {
	BaseURL    string      `json:"base_url" binding:"required"`
	SitemapURL string      `json:"sitemap_url,omitempty"`
	CrawlRules *CrawlRules `json:"crawl_rules,omitempty"`
}

// =============================================================================
// Crawl jobs
// =============================================================================

// JobStatus is the closed set of states a crawl or action-discovery job
// moves through. The lifecycle is
//
//	queued -> running -> (ingesting) -> succeeded | failed | cancelled
//
// and the three outcomes are terminal. New upstream statuses must be
// added here; ParseJobStatus rejects anything unknown so a silently
// ignored state cannot slip through.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobIngesting JobStatus = "ingesting"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// ParseJobStatus maps a wire string onto the closed enum.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobQueued, JobRunning, JobIngesting, JobSucceeded, JobFailed, JobCancelled:
		return JobStatus(s), nil
	default:
		return "", fmt.Errorf("unknown job status %q", s)
	}
}

// Terminal reports whether pollers must stop on this status.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSucceeded, JobFailed, JobCancelled:
		return true
	case JobQueued, JobRunning, JobIngesting:
		return false
	}
	// Unknown statuses are treated as non-terminal so a poller keeps
	// observing rather than abandoning a live job.
	return false
}

// CrawlStats are the raw counters reported by the remote crawler.
type CrawlStats struct {
	Visited   int        `json:"visited"`
	Queue     int        `json:"queue"`
	Processed int        `json:"processed"`
	Ingested  int        `json:"ingested"`
	Skipped   int        `json:"skipped"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CrawlJob is a remote crawl or discovery job as observed through the
// control plane. The gateway never mutates a job; it only polls.
type CrawlJob struct {
	JobID    string     `json:"job_id"`
	TenantID string     `json:"tenant_id,omitempty"`
	SiteID   string     `json:"site_id,omitempty"`
	Status   JobStatus  `json:"status"`
	Phase    string     `json:"phase,omitempty"`
	Stats    CrawlStats `json:"stats"`
	Error    string     `json:"error,omitempty"`
}

// PhaseIngesting is the phase during which ingest progress is displayed
// instead of crawl progress.
const PhaseIngesting = "ingesting"

// CrawlProgress derives the crawl completion percentage from the raw
// counters: processed / (processed + queue). The second return is false
// when no pages have been seen yet and the value is undefined.
func (j *CrawlJob) CrawlProgress() (int, bool) {
	total := j.Stats.Processed + j.Stats.Queue
	if total <= 0 {
		return 0, false
	}
	return int(math.Round(float64(j.Stats.Processed) / float64(total) * 100)), true
}

// IngestProgress derives the ingest completion percentage:
// ingested / processed. Undefined until at least one page is processed.
func (j *CrawlJob) IngestProgress() (int, bool) {
	if j.Stats.Processed <= 0 {
		return 0, false
	}
	return int(math.Round(float64(j.Stats.Ingested) / float64(j.Stats.Processed) * 100)), true
}

// DisplayProgress is the single percentage a consumer should show:
// ingest progress while the job is in the ingesting phase, crawl
// progress otherwise. This is the canonical formula shared by the
// gateway and its clients.
func (j *CrawlJob) DisplayProgress() (int, bool) {
	if j.Phase == PhaseIngesting {
		return j.IngestProgress()
	}
	return j.CrawlProgress()
}

// UnmarshalJSON validates the status field against the closed enum while
// decoding. An unknown status is surfaced as a decode error rather than
// silently carried as an opaque string.
func (j *CrawlJob) UnmarshalJSON(data []byte) error {
	type alias CrawlJob
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Status != "" {
		status, err := ParseJobStatus(string(raw.Status))
		if err != nil {
			return err
		}
		raw.Status = status
	}
	*j = CrawlJob(raw)
	return nil
}

// RunCrawlRequest is the enqueue payload forwarded to the control plane.
type RunCrawlRequest struct {
	TenantID string `json:"tenant_id"`
	SiteID   string `json:"site_id,omitempty"`
}

// RunCrawlResponse is the immediate acknowledgement of an enqueued job.
type RunCrawlResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}
