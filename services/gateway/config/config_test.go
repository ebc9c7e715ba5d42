// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{" true ", true},
		{"false", false},
		{"yes", false},
		{"enabled", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsEnabled(tc.value), "value %q", tc.value)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"GATEWAY_PORT", "CONTROL_PLANE_URL", "CONTROL_PLANE_API_KEY",
		"SITE_RAG_ENABLED", "SITE_RAG_TOP_K", "SITE_RAG_MAX_CHARS",
		"SITE_RAG_REQUIRE_SOURCE_URL", "SITE_RAG_ALLOW_ROOT_URL", "SITE_CACHE_TTL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTopK, cfg.SiteRAGTopK)
	assert.Equal(t, DefaultMaxChars, cfg.SiteRAGMaxChars)
	assert.Equal(t, DefaultSiteCacheTTL, cfg.SiteCacheTTL)
	assert.False(t, cfg.SiteRAGEnabled, "site RAG is off unless explicitly enabled")
	assert.True(t, cfg.RequireSourceURL, "source URL enforcement defaults on")
	assert.True(t, cfg.AllowRootURL, "root URLs are allowed by default")
	assert.False(t, cfg.ControlPlaneConfigured())
	assert.False(t, cfg.InternalConfigured())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CONTROL_PLANE_URL", "https://cp.example.com/")
	t.Setenv("CONTROL_PLANE_API_KEY", "tenant-key")
	t.Setenv("CONTROL_PLANE_INTERNAL_KEY", "internal-key")
	t.Setenv("SITE_RAG_ENABLED", "true")
	t.Setenv("SITE_RAG_TOP_K", "8")
	t.Setenv("SITE_RAG_REQUIRE_SOURCE_URL", "false")
	t.Setenv("SITE_CACHE_TTL", "90s")

	cfg := FromEnv()
	assert.Equal(t, "https://cp.example.com", cfg.ControlPlaneURL, "trailing slash is trimmed")
	assert.True(t, cfg.ControlPlaneConfigured())
	assert.True(t, cfg.InternalConfigured())
	assert.True(t, cfg.SiteRAGEnabled)
	assert.Equal(t, 8, cfg.SiteRAGTopK)
	assert.False(t, cfg.RequireSourceURL)
	assert.Equal(t, 90*time.Second, cfg.SiteCacheTTL)
}

func TestFromEnv_BadNumbersFallBack(t *testing.T) {
	t.Setenv("SITE_RAG_TOP_K", "not-a-number")
	t.Setenv("SITE_RAG_MAX_CHARS", "-5")
	t.Setenv("SITE_CACHE_TTL", "whenever")

	cfg := FromEnv()
	assert.Equal(t, DefaultTopK, cfg.SiteRAGTopK)
	assert.Equal(t, DefaultMaxChars, cfg.SiteRAGMaxChars)
	assert.Equal(t, DefaultSiteCacheTTL, cfg.SiteCacheTTL)
}

func TestLoadWidgetTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("primary_color: \"#336699\"\nposition: bottom-left\n"), 0o600))

	cfg := Config{WidgetThemeFile: path}
	theme, err := cfg.LoadWidgetTheme()
	require.NoError(t, err)
	assert.Equal(t, "#336699", theme.PrimaryColor)
	assert.Equal(t, "bottom-left", theme.Position)
}

func TestLoadWidgetTheme_NoFileConfigured(t *testing.T) {
	theme, err := Config{}.LoadWidgetTheme()
	require.NoError(t, err)
	assert.Zero(t, theme)
}
