// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/convostore"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
)

// HandleListConversations pages the caller's conversations. Query
// parameters: cursor, limit, is_archived, tags (repeatable), search,
// sort_by, sort_direction. The tenant scope always comes from the
// authenticated identity, never from the request.
func HandleListConversations(pager *convostore.Pager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
		isArchived, _ := strconv.ParseBool(c.DefaultQuery("is_archived", "false"))

		page, err := pager.Page(c.Request.Context(), identity.UserID, convostore.PageRequest{
			Cursor:        c.Query("cursor"),
			Limit:         limit,
			IsArchived:    isArchived,
			Tags:          c.QueryArray("tags"),
			Search:        c.Query("search"),
			SortBy:        c.Query("sort_by"),
			SortDirection: c.Query("sort_direction"),
			Tenant:        identity.TenantID,
		})
		if err != nil {
			var sortErr *convostore.InvalidSortError
			if errors.As(err, &sortErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": sortErr.Error()})
				return
			}
			slog.Error("conversation listing failed", "user", identity.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
