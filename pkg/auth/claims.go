// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claims structure shared by the gateway and its
// collaborators. It embeds jwt.RegisteredClaims for the standard fields
// (exp, iat, sub) and adds the tenant scoping the gateway needs.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id,omitempty"`
	Email    string `json:"email,omitempty"`
}
