// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package convostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TextSearcher resolves free-text queries against Mongo's $text index
// on the conversation collection, returning only conversation ids. The
// match is scoped to the owner and, when set, the tenant, so one
// tenant's titles never leak into another's search results.
type TextSearcher struct {
	coll *mongo.Collection
}

func NewTextSearcher(coll *mongo.Collection) *TextSearcher {
	return &TextSearcher{coll: coll}
}

// searchHit is the projected shape of a $text match.
type searchHit struct {
	ConversationID string `bson:"conversationId"`
}

func (s *TextSearcher) MatchingIDs(ctx context.Context, user, tenant, query string) ([]string, error) {
	filter := bson.D{
		{Key: "user", Value: user},
		{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}},
	}
	if tenant != "" {
		filter = append(filter, bson.E{Key: "tenantId", Value: tenant})
	}

	findOpts := options.Find().
		SetProjection(bson.D{
			{Key: "conversationId", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}},
		}).
		SetSort(bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}})

	cur, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("convostore: text search failed: %w", err)
	}
	var hits []searchHit
	if err := cur.All(ctx, &hits); err != nil {
		return nil, fmt.Errorf("convostore: text search decode failed: %w", err)
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ConversationID)
	}
	return ids, nil
}
