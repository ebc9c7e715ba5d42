// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobStatus_KnownValues(t *testing.T) {
	for _, s := range []string{"queued", "running", "ingesting", "succeeded", "failed", "cancelled"} {
		got, err := ParseJobStatus(s)
		require.NoError(t, err, "status %q should parse", s)
		assert.Equal(t, JobStatus(s), got)
	}
}

func TestParseJobStatus_Unknown(t *testing.T) {
	_, err := ParseJobStatus("paused")
	require.Error(t, err, "unknown statuses must be rejected, not carried")
	assert.Contains(t, err.Error(), "paused")
}

func TestJobStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobQueued, false},
		{JobRunning, false},
		{JobIngesting, false},
		{JobSucceeded, true},
		{JobFailed, true},
		{JobCancelled, true},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.terminal, tc.status.Terminal(), "status %s", tc.status)
	}
}

func TestCrawlJob_CrawlProgress(t *testing.T) {
	job := &CrawlJob{
		Status: JobRunning,
		Phase:  "crawling",
		Stats:  CrawlStats{Processed: 40, Queue: 10, Ingested: 20},
	}

	crawl, ok := job.CrawlProgress()
	require.True(t, ok)
	assert.Equal(t, 80, crawl, "40 processed of 50 total is 80%")

	display, ok := job.DisplayProgress()
	require.True(t, ok)
	assert.Equal(t, 80, display, "crawl progress is displayed outside the ingesting phase")
}

func TestCrawlJob_IngestProgressDisplayedWhileIngesting(t *testing.T) {
	job := &CrawlJob{
		Status: JobIngesting,
		Phase:  PhaseIngesting,
		Stats:  CrawlStats{Processed: 40, Ingested: 20},
	}

	ingest, ok := job.IngestProgress()
	require.True(t, ok)
	assert.Equal(t, 50, ingest)

	display, ok := job.DisplayProgress()
	require.True(t, ok)
	assert.Equal(t, 50, display, "ingest progress is displayed during the ingesting phase")
}

func TestCrawlJob_ProgressUndefinedOnZeroDenominator(t *testing.T) {
	job := &CrawlJob{Status: JobQueued}

	_, ok := job.CrawlProgress()
	assert.False(t, ok, "no progress before any pages are queued or processed")

	_, ok = job.IngestProgress()
	assert.False(t, ok, "ingest progress is undefined until a page is processed")
}

func TestCrawlJob_ProgressRounds(t *testing.T) {
	job := &CrawlJob{Stats: CrawlStats{Processed: 1, Queue: 2}}
	crawl, ok := job.CrawlProgress()
	require.True(t, ok)
	assert.Equal(t, 33, crawl, "1/3 rounds to 33")
}

func TestCrawlJob_UnmarshalRejectsUnknownStatus(t *testing.T) {
	var job CrawlJob
	err := json.Unmarshal([]byte(`{"job_id":"j1","status":"exploded"}`), &job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exploded")
}

func TestCrawlJob_UnmarshalFullShape(t *testing.T) {
	raw := `{
		"job_id": "job-9",
		"site_id": "site-3",
		"status": "ingesting",
		"phase": "ingesting",
		"stats": {"visited": 55, "queue": 5, "processed": 50, "ingested": 25, "skipped": 5}
	}`
	var job CrawlJob
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobIngesting, job.Status)
	assert.Equal(t, 50, job.Stats.Processed)

	display, ok := job.DisplayProgress()
	require.True(t, ok)
	assert.Equal(t, 50, display)
}
