// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "github.com/go-playground/validator/v10"

var widgetValidate = validator.New()

// WidgetConfig is the embeddable-widget configuration owned by the
// control plane. The site key authenticates the widget embed; rotation
// invalidates the previous key.
type WidgetConfig struct {
	SiteKey        string      `json:"site_key,omitempty"`
	AllowedOrigins []string    `json:"allowed_origins,omitempty" validate:"omitempty,dive,url"`
	Greeting       string      `json:"greeting,omitempty" validate:"max=500"`
	Theme          WidgetTheme `json:"theme"`
}

// Validate checks the tenant-editable fields before the config is
// forwarded to the control plane.
func (w *WidgetConfig) Validate() error {
	return widgetValidate.Struct(w)
}

// WidgetTheme holds the visual settings of the embedded widget. Defaults
// come from the gateway's widget-theme file, overridable per tenant.
type WidgetTheme struct {
	PrimaryColor string `json:"primary_color,omitempty" yaml:"primary_color" validate:"omitempty,hexcolor"`
	Position     string `json:"position,omitempty" yaml:"position" validate:"omitempty,oneof=bottom-right bottom-left"`
	LauncherIcon string `json:"launcher_icon,omitempty" yaml:"launcher_icon"`
}

// RotateWidgetKeyResponse carries the freshly issued site key.
type RotateWidgetKeyResponse struct {
	SiteKey string `json:"site_key"`
}

// BillingCheckoutRequest starts a checkout session for the tenant owner.
type BillingCheckoutRequest struct {
	Email string `json:"email,omitempty"`
}

// BillingCheckoutResponse carries the hosted checkout URL to redirect to.
type BillingCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}
