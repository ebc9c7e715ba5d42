// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatsite/tenantbridge/pkg/ux"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Inspect and manage the embedded widget",
}

var widgetGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the tenant's widget configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		cfg, err := client.GetWidgetConfig(cmd.Context(), tenant)
		if err != nil {
			return err
		}
		ux.Title("Widget configuration")
		ux.Field("site_key", cfg.SiteKey)
		ux.Field("origins", strings.Join(cfg.AllowedOrigins, ", "))
		ux.Field("greeting", cfg.Greeting)
		ux.Field("theme", cfg.Theme.PrimaryColor+" / "+cfg.Theme.Position)
		return nil
	},
}

var widgetRotateCmd = &cobra.Command{
	Use:   "rotate-key",
	Short: "Issue a new widget site key",
	Long: `Issues a fresh site key and invalidates the current one. Embedded
widgets keep failing until they are updated with the new key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		resp, err := client.RotateWidgetKey(cmd.Context(), tenant)
		if err != nil {
			return err
		}
		ux.Success("new site key issued")
		ux.Field("site_key", resp.SiteKey)
		return nil
	},
}

func init() {
	widgetCmd.AddCommand(widgetGetCmd)
	widgetCmd.AddCommand(widgetRotateCmd)
}
