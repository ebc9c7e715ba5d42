// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for security-critical
// identifiers. Tenant ids travel in HTTP headers and URL paths of
// control-plane requests; validating them up front prevents header and
// path injection from a forged token claim.
package validation

import (
	"fmt"
	"regexp"
)

// tenantIDPattern matches the id formats the platform issues: hex
// object ids, UUIDs, and slug-style ids. 1-64 characters of lowercase
// alphanumerics, hyphens, and underscores.
var tenantIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateTenantID checks a tenant identifier before it is placed in a
// header or path. Returns an error naming the constraint, never echoing
// more than the offending value.
func ValidateTenantID(id string) error {
	if id == "" {
		return fmt.Errorf("tenant id is empty")
	}
	if !tenantIDPattern.MatchString(id) {
		return fmt.Errorf("invalid tenant id %q: must be 1-64 lowercase alphanumerics, hyphens, or underscores", id)
	}
	return nil
}

// jobIDPattern is the same alphabet as tenant ids; job ids also travel
// in URL paths (GET /crawl/status/{id}).
var jobIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// ValidateJobID checks a job identifier before path interpolation.
func ValidateJobID(id string) error {
	if id == "" {
		return fmt.Errorf("job id is empty")
	}
	if !jobIDPattern.MatchString(id) {
		return fmt.Errorf("invalid job id %q", id)
	}
	return nil
}
