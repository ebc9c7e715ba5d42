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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

func TestWidgetConfig_GetAndUpdate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/widget/config", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"site_key":"pk_live_1","greeting":"Hi there","theme":{"primary_color":"#112233"}}`))
		case http.MethodPut:
			w.Write([]byte(`{"site_key":"pk_live_1","greeting":"Welcome","theme":{"primary_color":"#445566"}}`))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	cfg, err := client.GetWidgetConfig(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", cfg.Greeting)
	assert.Equal(t, "#112233", cfg.Theme.PrimaryColor)

	updated, err := client.UpdateWidgetConfig(context.Background(), "tenant-1",
		datatypes.WidgetConfig{Greeting: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", updated.Greeting)
}

func TestUpdateWidgetConfig_BadPayloadSurfacesUpstreamDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"invalid payload"}`))
	}))

	_, err := client.UpdateWidgetConfig(context.Background(), "tenant-1", datatypes.WidgetConfig{})
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadRequest, upErr.StatusCode)
	assert.Equal(t, "invalid payload", upErr.Message)
}

func TestRotateWidgetKey(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/widget/config/rotate-key", r.URL.Path)
		w.Write([]byte(`{"site_key":"pk_live_2"}`))
	}))

	rotated, err := client.RotateWidgetKey(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "pk_live_2", rotated.SiteKey)
}

func TestCreateBillingCheckout_ForwardsEmail(t *testing.T) {
	var gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"checkout_url":"https://billing.example.com/session/cs_1"}`))
	}))

	session, err := client.CreateBillingCheckout(context.Background(), "tenant-1", "owner@example.com")
	require.NoError(t, err)
	assert.Contains(t, gotBody, "owner@example.com")
	assert.Equal(t, "https://billing.example.com/session/cs_1", session.CheckoutURL)
}
