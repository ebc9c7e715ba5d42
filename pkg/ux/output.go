// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the tenantctl CLI.
//
// Color is enabled only when stdout is a terminal; piped output stays
// plain so the CLI composes with grep and scripts.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Chatsite palette
var (
	ColorIndigo  = lipgloss.Color("#4F5BD5") // primary brand color
	ColorViolet  = lipgloss.Color("#7B61FF") // highlights
	ColorSuccess = lipgloss.Color("#2BC48A")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6B7280")
)

// colorEnabled is resolved once at startup. NO_COLOR is honored.
var colorEnabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

// ColorEnabled reports whether styled output is active.
func ColorEnabled() bool { return colorEnabled }

// SetColorEnabled overrides terminal detection, for tests and the
// --no-color flag.
func SetColorEnabled(enabled bool) { colorEnabled = enabled }

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorIndigo),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Bold(true).Foreground(ColorViolet),
}

// render applies a style only when color is enabled.
func render(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

// Title prints a styled section title.
func Title(text string) {
	fmt.Println(render(Styles.Title, text))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	fmt.Printf("%s %s\n", render(Styles.Success, "✓"), text)
}

// Warning prints a warning message to stderr.
func Warning(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", render(Styles.Warning, "⚠"), text)
}

// Error prints an error message to stderr.
func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", render(Styles.Error, "✗"), text)
}

// Info prints an informational line.
func Info(text string) {
	fmt.Printf("%s %s\n", render(Styles.Muted, "│"), text)
}

// Field prints an aligned "label: value" line.
func Field(label, value string) {
	fmt.Printf("  %s %s\n", render(Styles.Muted, label+":"), value)
}
