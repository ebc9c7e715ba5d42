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

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// GetWidgetConfig reads the tenant's embed settings.
func (c *Client) GetWidgetConfig(ctx context.Context, tenantID string) (*datatypes.WidgetConfig, error) {
	var cfg datatypes.WidgetConfig
	err := c.call(ctx, authTenant, "widget", http.MethodGet,
		"/api/widget/config", nil, nil, &cfg, tenantID)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateWidgetConfig replaces the tenant's embed settings.
func (c *Client) UpdateWidgetConfig(ctx context.Context, tenantID string, cfg datatypes.WidgetConfig) (*datatypes.WidgetConfig, error) {
	var updated datatypes.WidgetConfig
	err := c.call(ctx, authTenant, "widget", http.MethodPut,
		"/api/widget/config", nil, cfg, &updated, tenantID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RotateWidgetKey issues a new site key, invalidating the previous one.
// Destructive but idempotent on retry: each call yields a fresh key and
// only the newest is valid.
func (c *Client) RotateWidgetKey(ctx context.Context, tenantID string) (*datatypes.RotateWidgetKeyResponse, error) {
	var rotated datatypes.RotateWidgetKeyResponse
	err := c.call(ctx, authTenant, "widget", http.MethodPost,
		"/api/widget/config/rotate-key", nil, struct{}{}, &rotated, tenantID)
	if err != nil {
		return nil, err
	}
	return &rotated, nil
}
