// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatsite/tenantbridge/pkg/ux"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

var (
	actionsURL    string
	actionsSiteID string
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Discover and list page actions",
}

var actionsDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Enqueue action discovery for a page URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		resp, err := client.DiscoverActions(cmd.Context(), tenant, datatypes.DiscoverActionsRequest{
			URL:    actionsURL,
			SiteID: actionsSiteID,
		})
		if err != nil {
			return err
		}
		ux.Success(fmt.Sprintf("discovery enqueued: job %s (%s)", resp.JobID, resp.Status))
		return nil
	},
}

var actionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List previously discovered actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		actions, err := client.ListActions(cmd.Context(), tenant, actionsSiteID, actionsURL)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			ux.Info("no actions discovered yet")
			return nil
		}
		for _, action := range actions {
			fmt.Fprintf(os.Stdout, "%-14s %-10s %s\n", action.ActionType, action.Source, action.URL)
		}
		return nil
	},
}

func init() {
	actionsDiscoverCmd.Flags().StringVar(&actionsURL, "url", "", "page URL to scan")
	actionsDiscoverCmd.Flags().StringVar(&actionsSiteID, "site-id", "", "site id")
	actionsDiscoverCmd.MarkFlagRequired("url")
	actionsListCmd.Flags().StringVar(&actionsURL, "url", "", "filter by page URL")
	actionsListCmd.Flags().StringVar(&actionsSiteID, "site-id", "", "filter by site id")

	actionsCmd.AddCommand(actionsDiscoverCmd)
	actionsCmd.AddCommand(actionsListCmd)
}
