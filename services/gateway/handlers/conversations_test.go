// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatsite/tenantbridge/services/gateway/convostore"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// sliceSource serves canned conversations regardless of filter.
type sliceSource struct {
	items  []datatypes.Conversation
	filter bson.D
}

func (s *sliceSource) Find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]datatypes.Conversation, error) {
	s.filter = filter
	return s.items, nil
}

func newConversationRouter(source convostore.Source) *gin.Engine {
	router := gin.New()
	router.GET("/conversations", injectIdentity, HandleListConversations(convostore.NewPager(source)))
	return router
}

func TestHandleListConversations_ReturnsPage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &sliceSource{items: []datatypes.Conversation{
		{ConversationID: "c1", User: "user-1", Title: "First", UpdatedAt: now, CreatedAt: now},
	}}
	router := newConversationRouter(source)

	w := serve(router, httptest.NewRequest("GET", "/conversations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items"`)
	assert.Contains(t, w.Body.String(), "c1")
	assert.NotContains(t, w.Body.String(), "nextCursor", "a final page carries no cursor")
}

func TestHandleListConversations_TenantScopeFromIdentity(t *testing.T) {
	source := &sliceSource{}
	router := newConversationRouter(source)

	serve(router, httptest.NewRequest("GET", "/conversations?tenant=evil-tenant", nil))

	for _, e := range source.filter {
		if e.Key == "tenantId" {
			assert.Equal(t, "tenant-1", e.Value,
				"the tenant scope comes from the token, never from query parameters")
			return
		}
	}
	t.Fatal("expected a tenantId constraint in the store filter")
}

func TestHandleListConversations_InvalidSortRejected(t *testing.T) {
	router := newConversationRouter(&sliceSource{})

	w := serve(router, httptest.NewRequest("GET", "/conversations?sort_by=color", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title, createdAt, updatedAt")
}

func TestHandleListConversations_CursorRoundTripsThroughQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := make([]datatypes.Conversation, 0, 26)
	for i := 0; i < 26; i++ {
		items = append(items, datatypes.Conversation{
			ConversationID: "c",
			User:           "user-1",
			UpdatedAt:      now.Add(-time.Duration(i) * time.Minute),
		})
	}
	source := &sliceSource{items: items}
	router := newConversationRouter(source)

	w := serve(router, httptest.NewRequest("GET", "/conversations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "nextCursor")

	var page convostore.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.NotEmpty(t, page.NextCursor)

	w = serve(router, httptest.NewRequest("GET", "/conversations?cursor="+url.QueryEscape(page.NextCursor), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	for _, e := range source.filter {
		if e.Key == "$or" {
			return
		}
	}
	t.Fatal("expected the cursor to become a continuation predicate")
}
