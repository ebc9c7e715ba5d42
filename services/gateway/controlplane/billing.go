// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controlplane

import (
	"context"
	"net/http"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// CreateBillingCheckout starts a hosted checkout session for the tenant
// owner and returns the redirect URL. Checkout mechanics live entirely
// on the control plane; the gateway only forwards.
func (c *Client) CreateBillingCheckout(ctx context.Context, tenantID, email string) (*datatypes.BillingCheckoutResponse, error) {
	body := datatypes.BillingCheckoutRequest{Email: email}
	var session datatypes.BillingCheckoutResponse
	err := c.call(ctx, authTenant, "billing", http.MethodPost,
		"/api/billing/checkout", nil, body, &session, tenantID)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
