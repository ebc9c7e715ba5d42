// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package convostore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// isoMillis matches the wire format the chat frontend produces for
// timestamps, millisecond precision with a trailing Z.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Cursor is the decoded form of an opaque pagination token. Primary is
// the last returned item's sort-field value (a string, or an ISO
// timestamp when the field is a date); Secondary is that item's
// updatedAt and breaks ties between equal primary values.
type Cursor struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// EncodeCursor packs a cursor into its opaque base64 form.
func EncodeCursor(primary, secondary string) string {
	raw, _ := json.Marshal(Cursor{Primary: primary, Secondary: secondary})
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeCursor unpacks an opaque token. Callers treat any error as "no
// cursor" and restart from the first page; a corrupt token is never
// surfaced to the end user.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("convostore: cursor is not base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("convostore: cursor is not valid JSON: %w", err)
	}
	if c.Secondary == "" {
		return Cursor{}, fmt.Errorf("convostore: cursor is missing the secondary key")
	}
	return c, nil
}

// formatISO renders a timestamp in the cursor wire format.
func formatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// parseISO accepts the cursor wire format plus full RFC 3339 so tokens
// minted by older frontends still decode.
func parseISO(value string) (time.Time, error) {
	if t, err := time.Parse(isoMillis, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("convostore: %q is not an ISO timestamp: %w", value, err)
	}
	return t, nil
}
