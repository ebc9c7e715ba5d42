// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// ActionType classifies a discovered interactive element.
type ActionType string

const (
	ActionForm         ActionType = "form"
	ActionButton       ActionType = "button"
	ActionLink         ActionType = "link"
	ActionSchemaAction ActionType = "schema_action"
)

// ActionSource records which discovery pass produced an action: the
// static HTML parse or the headless-browser pass.
type ActionSource string

const (
	SourceStatic     ActionSource = "static"
	SourcePlaywright ActionSource = "playwright"
)

// TenantAction is an interactive element discovered on a tenant's site,
// usable as a tool target by the chat layer. Read-only from the
// gateway's perspective; produced and owned by the discovery worker.
type TenantAction struct {
	ID         string       `json:"id"`
	URL        string       `json:"url"`
	ActionType ActionType   `json:"action_type"`
	Source     ActionSource `json:"source"`
	Method     string       `json:"method,omitempty"`
	Endpoint   string       `json:"endpoint,omitempty"`
	Label      string       `json:"label,omitempty"`
}

// DiscoverActionsRequest enqueues action discovery for a URL. The URL is
// required; the site id is optional scoping.
type DiscoverActionsRequest struct {
	URL    string `json:"url" binding:"required"`
	SiteID string `json:"site_id,omitempty"`
}
