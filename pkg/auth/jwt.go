// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package auth issues and validates the HS256 tokens used between the
// gateway and its collaborators: the session tokens minted by the chat
// application, and the short-lived identity tokens the gateway attaches
// to retrieval-index queries.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLen is the minimum accepted signing secret length in bytes.
// Anything shorter is trivially brute-forceable for HS256.
const MinSecretLen = 32

// ShortLivedTokenTTL is the lifetime of the per-request identity token
// sent to the retrieval index.
const ShortLivedTokenTTL = 5 * time.Minute

// ErrInvalidToken is returned when a token parses but fails validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// GenerateToken creates a signed JWT string from the given claims.
// The expiry duration is added to the current time to set the ExpiresAt
// field. Returns an error if the secret is shorter than MinSecretLen.
func GenerateToken(secret []byte, claims *Claims, expiry time.Duration) (string, error) {
	if len(secret) < MinSecretLen {
		return "", fmt.Errorf("auth: signing secret must be at least %d bytes", MinSecretLen)
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiry))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateShortLivedToken mints the identity token attached to retrieval
// queries: subject and user id set to the requesting user, expiring after
// ShortLivedTokenTTL.
func GenerateShortLivedToken(secret []byte, userID string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		UserID:           userID,
	}
	return GenerateToken(secret, claims, ShortLivedTokenTTL)
}

// ValidateToken parses and validates a JWT string, returning the
// structured Claims. Strictly pins the signing method to HS256 to prevent
// algorithm confusion attacks.
func ValidateToken(secret []byte, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v (only HS256 allowed)", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
