// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Identity is the resolved caller identity every gateway operation
// receives explicitly. There is no ambient tenant state; handlers pull
// this from the auth middleware and pass it down.
type Identity struct {
	UserID   string
	TenantID string
	Email    string
}
