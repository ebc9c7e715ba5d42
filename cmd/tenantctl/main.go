// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// tenantctl is the operator CLI for the tenant gateway's control plane:
// site records, crawl jobs, action discovery, and widget settings.
//
// Configuration comes from the environment:
//
//	CONTROL_PLANE_URL           control plane base URL (required)
//	CONTROL_PLANE_API_KEY       tenant-scoped API key
//	CONTROL_PLANE_INTERNAL_KEY  internal service key (site get)
//	TENANT_ID                   default tenant, overridable with --tenant
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatsite/tenantbridge/pkg/logging"
	"github.com/chatsite/tenantbridge/pkg/ux"
	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
)

var (
	flagTenant  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "tenantctl",
	Short: "Operate tenant sites, crawls, and widgets on the control plane",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			ux.SetColorEnabled(false)
		}
		// Library warnings go to stderr in text form, away from the
		// styled output on stdout.
		slog.SetDefault(logging.New(logging.Config{Service: "tenantctl", Text: true}))
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", os.Getenv("TENANT_ID"),
		"tenant id (defaults to TENANT_ID)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false,
		"disable styled output")

	rootCmd.AddCommand(siteCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(widgetCmd)
}

// newClient builds the control-plane client from the environment.
func newClient() (*controlplane.Client, error) {
	baseURL := os.Getenv("CONTROL_PLANE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("CONTROL_PLANE_URL is not set")
	}
	return controlplane.New(baseURL,
		os.Getenv("CONTROL_PLANE_API_KEY"),
		os.Getenv("CONTROL_PLANE_INTERNAL_KEY")), nil
}

func requireTenant() (string, error) {
	if flagTenant == "" {
		return "", fmt.Errorf("no tenant: set TENANT_ID or pass --tenant")
	}
	return flagTenant, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
