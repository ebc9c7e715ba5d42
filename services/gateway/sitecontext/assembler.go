// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sitecontext assembles the grounding context injected into
// chat prompts: a bounded, citation-safe block of documents retrieved
// from the tenant's indexed website.
//
// Assembly is strictly fail-open. Whatever goes wrong (tenant lookup,
// token issuance, the retrieval call) the assembler logs and returns
// an empty string so the chat pipeline proceeds ungrounded. The one
// deliberate exception: when retrieval ran but every hit was filtered
// out, a fixed "no sources found" instruction is returned instead of
// the empty string so the prompt can react differently to "retrieval
// unavailable" versus "nothing citable".
package sitecontext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chatsite/tenantbridge/pkg/auth"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/observability"
)

var tracer = otel.Tracer("tenantbridge.gateway.sitecontext")

// Fixed prompt fragments. The calling LLM prompt distinguishes the
// empty string (retrieval disabled or unavailable) from NoSourcesFound
// (retrieval ran, nothing citable survived).
const (
	NoSourcesFound = "No page-level sources were found for this query in the client's indexed website. " +
		"If you cannot cite a page URL, say you cannot find a source URL."

	contextPreamble = "Use only the page-level URLs provided in <source> for citations.\n" +
		"If you cannot cite a page URL from the indexed content, say you cannot find a source URL.\n" +
		"The following context was retrieved from the client's indexed website:"
)

// Assembly outcome labels for metrics.
const (
	outcomeDisabled   = "disabled"
	outcomeEmptyQuery = "empty_query"
	outcomeNoSite     = "no_site"
	outcomeNoHits     = "no_hits"
	outcomeNoSources  = "no_sources"
	outcomeOK         = "ok"
	outcomeError      = "error"
)

// SiteResolver is the slice of tenantdir.Directory the assembler needs.
type SiteResolver interface {
	ResolvePrimarySite(ctx context.Context, tenantID string) (*datatypes.TenantSiteRef, error)
}

// HTTPClient allows injecting a mock transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenIssuer mints the short-lived identity token attached to
// retrieval queries.
type TokenIssuer func(userID string) (string, error)

// Options carries the process-wide retrieval policy.
type Options struct {
	Enabled          bool
	TopK             int
	MaxChars         int
	RequireSourceURL bool
	AllowRootURL     bool
	Timeout          time.Duration
}

// Assembler builds grounding context for chat requests. Safe for
// concurrent use.
type Assembler struct {
	ragURL     string
	resolver   SiteResolver
	issueToken TokenIssuer
	httpClient HTTPClient
	opts       Options
	metrics    *observability.GatewayMetrics
}

// New builds an Assembler. ragURL may be empty, in which case every
// BuildContext call short-circuits to "". The jwtSecret feeds the
// default token issuer; SetTokenIssuer can replace it in tests.
func New(ragURL string, resolver SiteResolver, jwtSecret []byte, opts Options, metrics *observability.GatewayMetrics) *Assembler {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 1500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Assembler{
		ragURL:   strings.TrimRight(ragURL, "/"),
		resolver: resolver,
		issueToken: func(userID string) (string, error) {
			return auth.GenerateShortLivedToken(jwtSecret, userID)
		},
		httpClient: http.DefaultClient,
		opts:       opts,
		metrics:    metrics,
	}
}

// SetHTTPClient replaces the transport, typically with a mock in tests.
func (a *Assembler) SetHTTPClient(hc HTTPClient) { a.httpClient = hc }

// SetTokenIssuer replaces the identity-token issuer.
func (a *Assembler) SetTokenIssuer(issue TokenIssuer) { a.issueToken = issue }

// BuildContext turns a user's chat message into a grounding context
// block. It never returns an error; see the package comment for the
// fail-open contract.
func (a *Assembler) BuildContext(ctx context.Context, identity datatypes.Identity, query string) string {
	if a.ragURL == "" || !a.opts.Enabled || identity.TenantID == "" {
		a.metrics.ObserveContextAssembly(outcomeDisabled)
		return ""
	}
	query = strings.TrimSpace(query)
	if query == "" {
		a.metrics.ObserveContextAssembly(outcomeEmptyQuery)
		return ""
	}

	ctx, span := tracer.Start(ctx, "sitecontext.BuildContext")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.id", identity.TenantID))

	ref, err := a.resolver.ResolvePrimarySite(ctx, identity.TenantID)
	if err != nil {
		slog.Warn("failed to resolve the tenant's primary site",
			"tenantId", identity.TenantID, "error", err)
		a.metrics.ObserveContextAssembly(outcomeNoSite)
		return ""
	}
	if ref == nil || ref.SiteID == "" {
		a.metrics.ObserveContextAssembly(outcomeNoSite)
		return ""
	}
	span.SetAttributes(attribute.String("site.id", ref.SiteID))

	token, err := a.issueToken(identity.UserID)
	if err != nil {
		slog.Error("failed to issue the retrieval identity token",
			"tenantId", identity.TenantID, "error", err)
		a.metrics.ObserveContextAssembly(outcomeError)
		return ""
	}

	hits, err := a.queryIndex(ctx, identity.TenantID, token, query, ref.SiteID)
	if err != nil {
		slog.Error("failed to query the retrieval index",
			"tenantId", identity.TenantID, "siteId", ref.SiteID, "error", err)
		a.metrics.ObserveContextAssembly(outcomeError)
		return ""
	}
	if len(hits) == 0 {
		a.metrics.ObserveContextAssembly(outcomeNoHits)
		return ""
	}

	docs := a.filterHits(hits)
	span.SetAttributes(
		attribute.Int("retrieval.hits", len(hits)),
		attribute.Int("retrieval.documents", len(docs)),
	)
	if len(docs) == 0 {
		a.metrics.ObserveContextAssembly(outcomeNoSources)
		return NoSourcesFound
	}

	a.metrics.ObserveContextAssembly(outcomeOK)
	return renderContext(docs)
}

// queryIndex posts the query to the retrieval index, tenant-scoped via
// header and bounded by the configured timeout.
func (a *Assembler) queryIndex(ctx context.Context, tenantID, token, query, siteID string) ([]datatypes.RetrievalHit, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	payload, err := json.Marshal(datatypes.RetrievalQuery{
		Query:    query,
		K:        a.opts.TopK,
		EntityID: siteID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal the retrieval query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.ragURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create the retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Tenant-ID", tenantID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the retrieval response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval index returned status %d", resp.StatusCode)
	}

	var hits []datatypes.RetrievalHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, fmt.Errorf("failed to decode the retrieval response: %w", err)
	}
	return hits, nil
}

// filterHits applies the citation policy: drop empty content, drop
// uncitable sources when enforcement is on, blank the source when a
// document is kept despite an uncitable URL.
func (a *Assembler) filterHits(hits []datatypes.RetrievalHit) []datatypes.RetrievedDocument {
	docs := make([]datatypes.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		content := truncate(hit.Payload.PageContent, a.opts.MaxChars)
		if content == "" {
			continue
		}
		sourceURL := hit.Payload.Metadata.SourceURL
		citable := IsPageURL(sourceURL, a.opts.AllowRootURL)
		if a.opts.RequireSourceURL && !citable {
			continue
		}
		if !citable {
			sourceURL = ""
		}
		title := hit.Payload.Metadata.Title
		if title == "" {
			title = "Untitled"
		}
		docs = append(docs, datatypes.RetrievedDocument{
			Title:     title,
			SourceURL: sourceURL,
			Content:   content,
		})
	}
	return docs
}

// renderContext serializes the surviving documents with the citation
// preamble.
func renderContext(docs []datatypes.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString(contextPreamble)
	b.WriteString("\n<documents>\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "<document>\n  <title>%s</title>\n  <source>%s</source>\n  <content>%s</content>\n</document>\n",
			doc.Title, doc.SourceURL, doc.Content)
	}
	b.WriteString("</documents>")
	return b.String()
}

// truncate cuts text to maxChars runes, appending an ellipsis marker
// when anything was dropped.
func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "…"
}
