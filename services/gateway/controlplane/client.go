// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package controlplane is the typed client for the control-plane API:
// site records, crawl and action-discovery jobs, widget configuration,
// and billing checkout.
//
// Every operation requires a resolved tenant identifier and rejects a
// missing one before any network call. HTTP responses outside 2xx are
// converted exactly once, at the call boundary, into *UpstreamError
// carrying the upstream status code and human-readable message; callers
// apply the uniform mapping policy (4xx pass through verbatim, anything
// else collapses to a 502 with a generic message). Transport failures
// surface as ordinary wrapped errors.
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/chatsite/tenantbridge/pkg/validation"
	"github.com/chatsite/tenantbridge/services/gateway/observability"
)

var tracer = otel.Tracer("tenantbridge.gateway.controlplane")

// Local validation errors, rejected before any network call.
var (
	ErrMissingTenant = errors.New("controlplane: missing tenant context")
	ErrInvalidTenant = errors.New("controlplane: invalid tenant id")
	ErrMissingURL    = errors.New("controlplane: url is required")
	ErrMissingJobID  = errors.New("controlplane: jobId is required")
	ErrInvalidJobID  = errors.New("controlplane: invalid jobId")
	ErrNotConfigured = errors.New("controlplane: not configured")
)

// UpstreamError is a non-2xx control-plane response. Message is the
// upstream's human-readable message: the `detail` field when present,
// then `message`, else a generic fallback. The raw body is never carried
// past this boundary.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("controlplane: upstream returned %d: %s", e.StatusCode, e.Message)
}

// ClientError reports whether the upstream response was a 4xx, i.e. a
// caller problem that should be surfaced verbatim.
func (e *UpstreamError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NotFound reports whether the upstream said the resource is absent.
func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// HTTPClient allows injecting a mock transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the control plane. Safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string // tenant-scoped key for /api routes
	internalKey string // service credential for /internal routes
	httpClient  HTTPClient
	timeout     time.Duration
	metrics     *observability.GatewayMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport, typically with a mock in tests.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the per-call timeout (default 15s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMetrics attaches gateway metrics; nil is tolerated.
func WithMetrics(m *observability.GatewayMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a Client for the control plane at baseURL. An empty baseURL
// produces a client whose every call fails with ErrNotConfigured, which
// the route layer maps to the configuration-missing response.
func New(baseURL, apiKey, internalKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		internalKey: internalKey,
		httpClient:  http.DefaultClient,
		timeout:     15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether tenant-scoped (/api) calls can be made.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// InternalConfigured reports whether /internal calls can be made.
func (c *Client) InternalConfigured() bool {
	return c.baseURL != "" && c.internalKey != ""
}

// authMode selects which credential a call uses.
type authMode int

const (
	authTenant   authMode = iota // tenant API key + X-Tenant-ID header
	authInternal                 // internal service key
)

// call performs one control-plane request. endpoint is the metrics
// label, path is relative to the base URL, out (when non-nil) receives
// the decoded 2xx body.
func (c *Client) call(ctx context.Context, mode authMode, endpoint, method, path string, query url.Values, body, out any, tenantID string) error {
	if mode == authTenant && !c.Configured() {
		return ErrNotConfigured
	}
	if mode == authInternal && !c.InternalConfigured() {
		return ErrNotConfigured
	}
	if tenantID == "" {
		return ErrMissingTenant
	}
	// The id ends up in a request header; reject anything that could
	// smuggle header or path content.
	if err := validation.ValidateTenantID(tenantID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTenant, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "controlplane."+endpoint)
	defer span.End()
	span.SetAttributes(
		attribute.String("controlplane.method", method),
		attribute.String("controlplane.path", path),
	)

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal the request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create the request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch mode {
	case authTenant:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	case authInternal:
		req.Header.Set("Authorization", "Bearer "+c.internalKey)
	}
	req.Header.Set("X-Tenant-ID", tenantID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return fmt.Errorf("control plane request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		return fmt.Errorf("failed to read the response body: %w", err)
	}

	c.metrics.ObserveUpstream(endpoint, statusBucket(resp.StatusCode), time.Since(start))
	span.SetAttributes(attribute.Int("controlplane.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := decodeUpstreamError(resp.StatusCode, raw)
		span.SetStatus(codes.Error, upErr.Message)
		return upErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode the control plane response: %w", err)
		}
	}
	return nil
}

// decodeUpstreamError extracts the upstream's message from an error
// body. Preference order matches the control plane contract: `detail`,
// then `message`, else a generic fallback.
func decodeUpstreamError(status int, body []byte) *UpstreamError {
	var envelope struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	message := "Request failed"
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Detail != "" {
			message = envelope.Detail
		} else if envelope.Message != "" {
			message = envelope.Message
		}
	}
	return &UpstreamError{StatusCode: status, Message: message}
}

func statusBucket(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
