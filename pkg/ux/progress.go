// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"
)

// ProgressBarWidth is the fixed character width of the bar itself.
const ProgressBarWidth = 30

// ProgressBar renders a single-line bar like
//
//	[██████████░░░░░░░░░░░░░░░░░░░░]  33%
//
// percent is clamped to [0, 100].
func ProgressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * ProgressBarWidth / 100

	bar := strings.Repeat("█", filled) + strings.Repeat("░", ProgressBarWidth-filled)
	return fmt.Sprintf("[%s] %3d%%", render(Styles.Success, bar), percent)
}
