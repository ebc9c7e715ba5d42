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

	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
	"github.com/chatsite/tenantbridge/services/gateway/middleware"
)

// HandleBillingCheckout starts a hosted checkout session for the
// tenant. The email defaults to the authenticated user's; the body may
// override it for invoicing a different address.
func HandleBillingCheckout(cp *controlplane.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var req datatypes.BillingCheckoutRequest
		_ = c.ShouldBindJSON(&req) // body is optional
		email := req.Email
		if email == "" {
			email = identity.Email
		}

		resp, err := cp.CreateBillingCheckout(c.Request.Context(), identity.TenantID, email)
		if err != nil {
			respondUpstreamError(c, err, "Failed to start checkout")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
