// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Retrieval index wire types
// =============================================================================

// RetrievalQuery is the request body of the retrieval index's /query
// endpoint. EntityID scopes the search to a single indexed site.
type RetrievalQuery struct {
	Query    string `json:"query"`
	K        int    `json:"k"`
	EntityID string `json:"entity_id"`
}

// RetrievalPayload is the document payload inside a query hit.
type RetrievalPayload struct {
	PageContent string            `json:"page_content"`
	Metadata    RetrievalMetadata `json:"metadata"`
}

// RetrievalMetadata carries the citation fields of an indexed chunk.
type RetrievalMetadata struct {
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`
}

// RetrievalHit is one result of a retrieval query. On the wire each hit
// is a [payload, score] tuple; UnmarshalJSON flattens that into a struct.
type RetrievalHit struct {
	Payload RetrievalPayload
	Score   float64
}

// UnmarshalJSON decodes the tuple form. A hit with no elements is an
// error; a missing score is tolerated (older index versions omit it).
func (h *RetrievalHit) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("retrieval hit is not a tuple: %w", err)
	}
	if len(tuple) == 0 {
		return fmt.Errorf("retrieval hit tuple is empty")
	}
	if err := json.Unmarshal(tuple[0], &h.Payload); err != nil {
		return fmt.Errorf("retrieval hit payload: %w", err)
	}
	if len(tuple) > 1 {
		// Best effort; score is informational only.
		_ = json.Unmarshal(tuple[1], &h.Score)
	}
	return nil
}

// RetrievedDocument is a citation-safe document extracted from a hit.
// Transient: constructed per query, never persisted by the gateway.
type RetrievedDocument struct {
	Title     string
	SourceURL string
	Content   string
}
