// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package convostore paginates the chat subsystem's conversation
// collection with composite-key (keyset) cursors.
//
// The collection is mutable and concurrently written by the chat
// subsystem, so offset pagination would drift; instead every page is
// anchored on the last returned item's (sortField, updatedAt) pair.
// updatedAt is always the tie-breaker because sort-field values such as
// titles are not unique. Queries are read-only and carry no transaction:
// a conversation updated mid-iteration can be skipped or seen twice,
// which is an accepted property of the listing UI, not a bug.
package convostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

var tracer = otel.Tracer("tenantbridge.gateway.convostore")

// DefaultPageSize is used when the caller does not set a limit.
const DefaultPageSize = 25

// StartCursor is the sentinel accepted by PageByIDs for "first page".
const StartCursor = "start"

// sortFields is the allow-list of sortable columns. The bool marks
// fields stored as dates, whose cursor values travel as ISO timestamps.
var sortFields = map[string]bool{
	"title":     false,
	"createdAt": true,
	"updatedAt": true,
}

// InvalidSortError rejects a sortBy outside the allow-list. It is a
// caller error and must never fall back silently to a default field.
type InvalidSortError struct {
	Field string
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("convostore: invalid sortBy %q, must be one of title, createdAt, updatedAt", e.Field)
}

// Source runs a filtered, sorted, bounded query against the
// conversation collection. *MongoSource is the production
// implementation; tests substitute a fake.
type Source interface {
	Find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]datatypes.Conversation, error)
}

// Searcher resolves a free-text query to matching conversation ids,
// scoped to an owner and optional tenant.
type Searcher interface {
	MatchingIDs(ctx context.Context, user, tenant, query string) ([]string, error)
}

// MongoSource adapts a mongo collection to the Source interface.
type MongoSource struct {
	coll *mongo.Collection
}

func NewMongoSource(coll *mongo.Collection) *MongoSource {
	return &MongoSource{coll: coll}
}

func (s *MongoSource) Find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]datatypes.Conversation, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("convostore: find failed: %w", err)
	}
	var items []datatypes.Conversation
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("convostore: decode failed: %w", err)
	}
	return items, nil
}

// PageRequest carries the caller's listing parameters. Zero values mean
// "default": limit 25, sorted by updatedAt descending, not archived.
type PageRequest struct {
	Cursor        string
	Limit         int64
	IsArchived    bool
	Tags          []string
	Search        string
	SortBy        string
	SortDirection string
	Tenant        string
}

// Page is one window of results. NextCursor is empty on the last page.
type Page struct {
	Items      []datatypes.Conversation `json:"items"`
	NextCursor string                   `json:"nextCursor,omitempty"`
}

// IDPage is the result of PageByIDs. ByID indexes Items for O(1) lookup
// by the caller that supplied the candidate list.
type IDPage struct {
	Items      []datatypes.Conversation          `json:"items"`
	NextCursor string                            `json:"nextCursor,omitempty"`
	ByID       map[string]datatypes.Conversation `json:"-"`
}

// Pager executes cursor-based, filterable, optionally search-augmented
// queries over the conversation store. Safe for concurrent use.
type Pager struct {
	source   Source
	searcher Searcher
	logger   *slog.Logger
}

type PagerOption func(*Pager)

// WithSearcher enables the free-text search path.
func WithSearcher(s Searcher) PagerOption {
	return func(p *Pager) { p.searcher = s }
}

func WithLogger(l *slog.Logger) PagerOption {
	return func(p *Pager) { p.logger = l }
}

func NewPager(source Source, opts ...PagerOption) *Pager {
	p := &Pager{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Page returns one window of the caller's conversations.
//
// When req.Search is set the search index is consulted first and the
// store query is restricted to the matching ids; an empty match set
// short-circuits to an empty page without touching the store at all.
// A cursor that fails to decode restarts from the first page with a
// warning rather than erroring, so a stale bookmark in a client never
// breaks the listing.
func (p *Pager) Page(ctx context.Context, user string, req PageRequest) (*Page, error) {
	ctx, span := tracer.Start(ctx, "convostore.Page")
	defer span.End()

	if req.Limit <= 0 {
		req.Limit = DefaultPageSize
	}
	if req.SortBy == "" {
		req.SortBy = "updatedAt"
	}
	if req.SortDirection == "" {
		req.SortDirection = "desc"
	}
	if _, ok := sortFields[req.SortBy]; !ok {
		return nil, &InvalidSortError{Field: req.SortBy}
	}
	span.SetAttributes(
		attribute.String("sort_by", req.SortBy),
		attribute.Int64("limit", req.Limit),
		attribute.Bool("search", req.Search != ""),
	)

	var searchIDs []string
	if req.Search != "" {
		if p.searcher == nil {
			return nil, fmt.Errorf("convostore: search requested but no searcher is configured")
		}
		ids, err := p.searcher.MatchingIDs(ctx, user, req.Tenant, req.Search)
		if err != nil {
			return nil, fmt.Errorf("convostore: search failed: %w", err)
		}
		if len(ids) == 0 {
			return &Page{Items: []datatypes.Conversation{}}, nil
		}
		searchIDs = ids
	}

	filter := buildFilter(user, req, searchIDs)
	if req.Cursor != "" {
		predicate, err := cursorPredicate(req.Cursor, req.SortBy, req.SortDirection)
		if err != nil {
			p.logger.WarnContext(ctx, "malformed pagination cursor, restarting from the first page",
				"user", user, "error", err)
		} else {
			filter = append(filter, predicate)
		}
	}

	findOpts := options.Find().
		SetSort(sortSpec(req.SortBy, req.SortDirection)).
		SetLimit(req.Limit + 1)
	items, err := p.source.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: items}
	if int64(len(items)) > req.Limit {
		page.Items = items[:req.Limit]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = EncodeCursor(primaryValue(last, req.SortBy), formatISO(last.UpdatedAt))
	}
	if page.Items == nil {
		page.Items = []datatypes.Conversation{}
	}
	return page, nil
}

// PageByIDs pages over an explicit candidate id list, such as the
// conversation references of a parent object. The sort is fixed to
// updatedAt descending and the cursor is a literal ISO timestamp, or
// "start" for the first page.
func (p *Pager) PageByIDs(ctx context.Context, user string, ids []string, cursor string, limit int64) (*IDPage, error) {
	ctx, span := tracer.Start(ctx, "convostore.PageByIDs")
	defer span.End()

	if limit <= 0 {
		limit = DefaultPageSize
	}
	span.SetAttributes(attribute.Int("candidates", len(ids)))
	if len(ids) == 0 {
		return &IDPage{Items: []datatypes.Conversation{}, ByID: map[string]datatypes.Conversation{}}, nil
	}

	filter := bson.D{
		{Key: "user", Value: user},
		{Key: "conversationId", Value: bson.D{{Key: "$in", Value: ids}}},
		{Key: "expiredAt", Value: nil},
	}
	if cursor != "" && cursor != StartCursor {
		before, err := parseISO(cursor)
		if err != nil {
			p.logger.WarnContext(ctx, "malformed timestamp cursor, restarting from the first page",
				"user", user, "error", err)
		} else {
			filter = append(filter, bson.E{Key: "updatedAt", Value: bson.D{{Key: "$lt", Value: before}}})
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(limit + 1)
	items, err := p.source.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}

	page := &IDPage{Items: items}
	if int64(len(items)) > limit {
		page.Items = items[:limit]
		page.NextCursor = formatISO(page.Items[len(page.Items)-1].UpdatedAt)
	}
	if page.Items == nil {
		page.Items = []datatypes.Conversation{}
	}
	page.ByID = make(map[string]datatypes.Conversation, len(page.Items))
	for _, item := range page.Items {
		page.ByID[item.ConversationID] = item
	}
	return page, nil
}

// buildFilter ANDs the owner, tenant, archived-state, tag, expiry, and
// search-id constraints. Mongo's {field: null} matches both an explicit
// null and a missing field, which is exactly the expiry contract.
func buildFilter(user string, req PageRequest, searchIDs []string) bson.D {
	filter := bson.D{
		{Key: "user", Value: user},
		{Key: "expiredAt", Value: nil},
	}
	if req.Tenant != "" {
		filter = append(filter, bson.E{Key: "tenantId", Value: req.Tenant})
	}
	if req.IsArchived {
		filter = append(filter, bson.E{Key: "isArchived", Value: true})
	} else {
		// Absence of the flag counts as "not archived".
		filter = append(filter, bson.E{Key: "isArchived", Value: bson.D{{Key: "$ne", Value: true}}})
	}
	if len(req.Tags) > 0 {
		filter = append(filter, bson.E{Key: "tags", Value: bson.D{{Key: "$in", Value: req.Tags}}})
	}
	if len(searchIDs) > 0 {
		filter = append(filter, bson.E{Key: "conversationId", Value: bson.D{{Key: "$in", Value: searchIDs}}})
	}
	return filter
}

// cursorPredicate translates a decoded cursor into the two-column
// keyset continuation predicate:
//
//	(sortField op primary) OR (sortField == primary AND updatedAt op secondary)
//
// where op is $gt ascending and $lt descending. The OR arm on the
// tie-breaker is what prevents skipping or duplicating items that share
// a primary value with the page boundary.
func cursorPredicate(token, sortBy, direction string) (bson.E, error) {
	c, err := DecodeCursor(token)
	if err != nil {
		return bson.E{}, err
	}
	op := "$lt"
	if direction == "asc" {
		op = "$gt"
	}

	var primary interface{} = c.Primary
	if sortFields[sortBy] {
		t, err := parseISO(c.Primary)
		if err != nil {
			return bson.E{}, err
		}
		primary = t
	}
	secondary, err := parseISO(c.Secondary)
	if err != nil {
		return bson.E{}, err
	}

	return bson.E{Key: "$or", Value: bson.A{
		bson.D{{Key: sortBy, Value: bson.D{{Key: op, Value: primary}}}},
		bson.D{
			{Key: sortBy, Value: primary},
			{Key: "updatedAt", Value: bson.D{{Key: op, Value: secondary}}},
		},
	}}, nil
}

// sortSpec stabilizes every sort with updatedAt as the secondary key so
// cursoring sees a total order.
func sortSpec(sortBy, direction string) bson.D {
	dir := -1
	if direction == "asc" {
		dir = 1
	}
	spec := bson.D{{Key: sortBy, Value: dir}}
	if sortBy != "updatedAt" {
		spec = append(spec, bson.E{Key: "updatedAt", Value: dir})
	}
	return spec
}

// primaryValue extracts the cursor primary for the last item of a page.
func primaryValue(item datatypes.Conversation, sortBy string) string {
	switch sortBy {
	case "title":
		return item.Title
	case "createdAt":
		return formatISO(item.CreatedAt)
	default:
		return formatISO(item.UpdatedAt)
	}
}
