// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"net/http"
	"strings"
)

// MemberHeader names the acting member when header overrides are enabled.
const MemberHeader = "X-Member-ID"

// Resolver decides which board member a request acts as.
type Resolver struct {
	currentID   string
	allowHeader bool
}

// NewResolver returns a resolver that acts as currentID. When allowHeader
// is set, a non-empty X-Member-ID header overrides it. The header is an
// identity hint for development, not authentication.
func NewResolver(currentID string, allowHeader bool) *Resolver {
	return &Resolver{
		currentID:   strings.TrimSpace(currentID),
		allowHeader: allowHeader,
	}
}

// MemberID returns the id of the member acting on r.
func (res *Resolver) MemberID(r *http.Request) string {
	if res.allowHeader {
		if id := strings.TrimSpace(r.Header.Get(MemberHeader)); id != "" {
			return id
		}
	}
	return res.currentID
}

// CurrentID returns the configured current user.
func (res *Resolver) CurrentID() string {
	return res.currentID
}
