// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session resolves the board member a request acts as.

There is no login: the service runs as one configured member (the current
user). For local testing, --allow-member-header lets a client act as
someone else by sending X-Member-ID:

	res := session.NewResolver(cfg.CurrentMemberID, cfg.AllowMemberHeader)
	memberID := res.MemberID(r)

Votes cast for a member who is not on a decision's tally are rejected by
the ledger, so an unknown header value never changes state.
*/
package session
