// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging configures structured logging for Chatsite services.
//
// Services log JSON to stdout with a fixed `service` attribute, the
// level comes from LOG_LEVEL (debug, info, warn, error; default info).
// CLI tools log human-readable text to stderr instead, keeping stdout
// clean for command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls how a logger is built.
type Config struct {
	// Service is attached to every record as the "service" attribute.
	Service string

	// Level overrides LOG_LEVEL when non-empty.
	Level string

	// Text switches from JSON to the text handler (CLI mode).
	Text bool

	// Writer defaults to stdout for JSON, stderr for text.
	Writer io.Writer
}

// New builds a slog.Logger per the config.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		if cfg.Text {
			w = os.Stderr
		} else {
			w = os.Stdout
		}
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Setup builds a logger for the named service and installs it as the
// process default.
func Setup(service string) *slog.Logger {
	logger := New(Config{Service: service})
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name onto a slog.Level. Empty falls back to
// LOG_LEVEL, and anything unrecognized means info.
func ParseLevel(level string) slog.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
