// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatsite/tenantbridge/services/gateway/middleware"
	"github.com/chatsite/tenantbridge/services/gateway/sitecontext"
)

type contextRequest struct {
	Query string `json:"query" binding:"required"`
}

// HandleAssembleContext serves the chat subsystem's grounding lookup.
// The response always succeeds; an empty context means retrieval is
// disabled or unavailable and the chat proceeds ungrounded.
func HandleAssembleContext(assembler *sitecontext.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var req contextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}

		built := assembler.BuildContext(c.Request.Context(), identity, req.Query)
		c.JSON(http.StatusOK, gin.H{"context": built})
	}
}
