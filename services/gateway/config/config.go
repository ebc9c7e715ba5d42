// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the gateway configuration from the environment
// once at startup. All retrieval policy flags are process-wide; there is
// no per-tenant divergence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chatsite/tenantbridge/services/gateway/datatypes"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort         = "8085"
	DefaultTopK         = 4
	DefaultMaxChars     = 1500
	DefaultSiteCacheTTL = 5 * time.Minute

	// Timeouts for the two classes of remote calls.
	DefaultLookupTimeout   = 8 * time.Second
	DefaultUpstreamTimeout = 15 * time.Second
)

// Config is the gateway's startup configuration.
type Config struct {
	Port string

	// Control plane collaborator. Empty URL or keys mean the proxy
	// features are not configured (fail-open for retrieval, 500 on the
	// proxy routes).
	ControlPlaneURL         string
	ControlPlaneAPIKey      string
	ControlPlaneInternalKey string

	// Retrieval index collaborator.
	RagAPIURL string

	// Signing secret for inbound session tokens and outbound short-lived
	// identity tokens.
	JWTSecret string

	// Conversation store.
	MongoURI      string
	MongoDatabase string

	// Retrieval policy flags, process-wide.
	SiteRAGEnabled   bool
	SiteRAGTopK      int
	SiteRAGMaxChars  int
	RequireSourceURL bool
	AllowRootURL     bool

	SiteCacheTTL time.Duration

	// Optional YAML file with widget theme defaults.
	WidgetThemeFile string

	OTELEndpoint string
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Port:                    getEnv("GATEWAY_PORT", DefaultPort),
		ControlPlaneURL:         strings.TrimRight(os.Getenv("CONTROL_PLANE_URL"), "/"),
		ControlPlaneAPIKey:      os.Getenv("CONTROL_PLANE_API_KEY"),
		ControlPlaneInternalKey: os.Getenv("CONTROL_PLANE_INTERNAL_KEY"),
		RagAPIURL:               strings.TrimRight(os.Getenv("RAG_API_URL"), "/"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "chatsite"),
		SiteRAGEnabled:          IsEnabled(os.Getenv("SITE_RAG_ENABLED")),
		SiteRAGTopK:             getEnvInt("SITE_RAG_TOP_K", DefaultTopK),
		SiteRAGMaxChars:         getEnvInt("SITE_RAG_MAX_CHARS", DefaultMaxChars),
		RequireSourceURL:        os.Getenv("SITE_RAG_REQUIRE_SOURCE_URL") != "false",
		AllowRootURL:            os.Getenv("SITE_RAG_ALLOW_ROOT_URL") != "false",
		SiteCacheTTL:            getEnvDuration("SITE_CACHE_TTL", DefaultSiteCacheTTL),
		WidgetThemeFile:         os.Getenv("WIDGET_THEME_FILE"),
		OTELEndpoint:            os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// IsEnabled reports whether a feature-flag value is truthy. Only the
// explicit values "true" and "1" (case-insensitive) enable a flag;
// everything else, including empty, is off.
func IsEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	}
	return false
}

// ControlPlaneConfigured reports whether the tenant-scoped proxy
// operations can be used at all.
func (c Config) ControlPlaneConfigured() bool {
	return c.ControlPlaneURL != "" && c.ControlPlaneAPIKey != ""
}

// InternalConfigured reports whether internal (service-credential)
// control plane calls can be used.
func (c Config) InternalConfigured() bool {
	return c.ControlPlaneURL != "" && c.ControlPlaneInternalKey != ""
}

// LoadWidgetTheme reads widget theme defaults from the configured YAML
// file. A missing path returns zero-value defaults without error.
func (c Config) LoadWidgetTheme() (datatypes.WidgetTheme, error) {
	var theme datatypes.WidgetTheme
	if c.WidgetThemeFile == "" {
		return theme, nil
	}
	data, err := os.ReadFile(c.WidgetThemeFile)
	if err != nil {
		return theme, fmt.Errorf("failed to read the widget theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("failed to parse the widget theme file: %w", err)
	}
	return theme, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
