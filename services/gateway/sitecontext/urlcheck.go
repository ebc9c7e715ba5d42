// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sitecontext

import "net/url"

// IsHTTPURL reports whether value parses as an absolute http or https
// URL.
func IsHTTPURL(value string) bool {
	if value == "" {
		return false
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsPageURL reports whether value is citable as a page-level source.
// Any valid http(s) URL qualifies when allowRoot is true. Otherwise the
// URL must point below the root: a non-root path, or a query or
// fragment on the bare domain.
func IsPageURL(value string, allowRoot bool) bool {
	if !IsHTTPURL(value) {
		return false
	}
	if allowRoot {
		return true
	}
	u, _ := url.Parse(value)
	if u.Path != "" && u.Path != "/" {
		return true
	}
	return u.RawQuery != "" || u.Fragment != ""
}
