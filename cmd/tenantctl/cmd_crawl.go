// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatsite/tenantbridge/pkg/ux"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// watchPollInterval is the fixed interval between status reads while a
// job is still in a non-terminal state.
const watchPollInterval = 10 * time.Second

var (
	crawlSiteID string
	crawlJobID  string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run and observe crawl jobs",
}

var crawlRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Enqueue a crawl for the tenant's site",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		resp, err := client.RunCrawl(cmd.Context(), tenant, crawlSiteID)
		if err != nil {
			return err
		}
		ux.Success(fmt.Sprintf("crawl enqueued: job %s (%s)", resp.JobID, resp.Status))
		ux.Info("follow it with: tenantctl crawl watch --job-id " + resp.JobID)
		return nil
	},
}

var crawlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the current crawl status once",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		job, err := fetchJob(cmd.Context(), client, tenant)
		if err != nil {
			return err
		}
		printJob(os.Stdout, job)
		return nil
	},
}

var crawlWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll a crawl until it reaches a terminal state",
	Long: `Polls the crawl status every 10 seconds and renders progress until
the job succeeds, fails, or is cancelled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		job, err := watchJob(cmd.Context(), func(ctx context.Context) (*datatypes.CrawlJob, error) {
			return fetchJob(ctx, client, tenant)
		}, watchPollInterval, os.Stdout)
		if err != nil {
			return err
		}

		switch job.Status {
		case datatypes.JobSucceeded:
			ux.Success("crawl finished")
		case datatypes.JobCancelled:
			ux.Warning("crawl was cancelled")
		default:
			ux.Error("crawl failed: " + job.Error)
		}
		return nil
	},
}

// fetchJob reads by job id when given, otherwise the tenant's latest.
func fetchJob(ctx context.Context, client crawlReader, tenant string) (*datatypes.CrawlJob, error) {
	if crawlJobID != "" {
		return client.GetCrawlStatusByJob(ctx, tenant, crawlJobID)
	}
	return client.GetCrawlStatus(ctx, tenant, crawlSiteID)
}

type crawlReader interface {
	GetCrawlStatus(ctx context.Context, tenantID, siteID string) (*datatypes.CrawlJob, error)
	GetCrawlStatusByJob(ctx context.Context, tenantID, jobID string) (*datatypes.CrawlJob, error)
}

// watchJob polls fetch at the given interval until the job reaches a
// terminal state, rendering one progress line per poll. The returned
// job is the terminal observation.
func watchJob(ctx context.Context, fetch func(context.Context) (*datatypes.CrawlJob, error),
	interval time.Duration, out io.Writer) (*datatypes.CrawlJob, error) {

	for {
		job, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		printJobLine(out, job)
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func printJobLine(out io.Writer, job *datatypes.CrawlJob) {
	if percent, ok := job.DisplayProgress(); ok {
		fmt.Fprintf(out, "%s  %s %s\n", job.Status, ux.ProgressBar(percent), job.Phase)
		return
	}
	fmt.Fprintf(out, "%s  %s\n", job.Status, job.Phase)
}

func printJob(out io.Writer, job *datatypes.CrawlJob) {
	fmt.Fprintf(out, "job:    %s\n", job.JobID)
	fmt.Fprintf(out, "status: %s\n", job.Status)
	if job.Phase != "" {
		fmt.Fprintf(out, "phase:  %s\n", job.Phase)
	}
	fmt.Fprintf(out, "pages:  %d processed, %d queued, %d ingested\n",
		job.Stats.Processed, job.Stats.Queue, job.Stats.Ingested)
	if percent, ok := job.DisplayProgress(); ok {
		fmt.Fprintln(out, ux.ProgressBar(percent))
	}
	if job.Error != "" {
		fmt.Fprintf(out, "error:  %s\n", job.Error)
	}
}

func init() {
	crawlRunCmd.Flags().StringVar(&crawlSiteID, "site-id", "", "site id (defaults to the primary site)")
	crawlStatusCmd.Flags().StringVar(&crawlSiteID, "site-id", "", "site id filter")
	crawlStatusCmd.Flags().StringVar(&crawlJobID, "job-id", "", "job id")
	crawlWatchCmd.Flags().StringVar(&crawlSiteID, "site-id", "", "site id filter")
	crawlWatchCmd.Flags().StringVar(&crawlJobID, "job-id", "", "job id")

	crawlCmd.AddCommand(crawlRunCmd)
	crawlCmd.AddCommand(crawlStatusCmd)
	crawlCmd.AddCommand(crawlWatchCmd)
}
