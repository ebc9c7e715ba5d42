// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/chatsite/tenantbridge/pkg/ux"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

var (
	siteBaseURL    string
	siteSitemapURL string
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Read or write the tenant's site record",
}

var siteGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the tenant's primary site",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		site, err := client.GetPrimarySite(cmd.Context(), tenant)
		if err != nil {
			return err
		}
		if site == nil {
			ux.Warning("no site registered for this tenant")
			return nil
		}
		ux.Title("Primary site")
		ux.Field("id", site.ID)
		ux.Field("base_url", site.BaseURL)
		if site.SitemapURL != "" {
			ux.Field("sitemap_url", site.SitemapURL)
		}
		return nil
	},
}

var siteSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the tenant's site",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tenant, err := requireTenant()
		if err != nil {
			return err
		}

		site, err := client.UpsertSite(cmd.Context(), tenant, datatypes.UpsertSiteRequest{
			BaseURL:    siteBaseURL,
			SitemapURL: siteSitemapURL,
		})
		if err != nil {
			return err
		}
		ux.Success("site saved: " + site.ID)
		return nil
	},
}

func init() {
	siteSetCmd.Flags().StringVar(&siteBaseURL, "base-url", "", "site base URL")
	siteSetCmd.Flags().StringVar(&siteSitemapURL, "sitemap-url", "", "sitemap URL")
	siteSetCmd.MarkFlagRequired("base-url")

	siteCmd.AddCommand(siteGetCmd)
	siteCmd.AddCommand(siteSetCmd)
}
