// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// Conversation is the chat subsystem's conversation document as stored
// in Mongo. The gateway only reads, filters, and sorts conversations; it
// never mutates them.
type Conversation struct {
	ConversationID string     `bson:"conversationId" json:"conversation_id"`
	User           string     `bson:"user" json:"user"`
	TenantID       string     `bson:"tenantId,omitempty" json:"tenant_id,omitempty"`
	Title          string     `bson:"title,omitempty" json:"title,omitempty"`
	Endpoint       string     `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	Model          string     `bson:"model,omitempty" json:"model,omitempty"`
	IsArchived     bool       `bson:"isArchived,omitempty" json:"is_archived,omitempty"`
	Tags           []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	ExpiredAt      *time.Time `bson:"expiredAt,omitempty" json:"expired_at,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updated_at"`
}
