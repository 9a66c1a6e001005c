// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the single authoritative copy of board state.

Every HTTP surface (the voting dashboard, decision detail and meeting
detail) reads and writes decisions through a Board, so there is never a
second, stale copy of a tally. Reads return deep copies. Writes run the
ledger on the stored value and replace it with the result.

# Implementations

  - Memory: maps and slices guarded by a sync.RWMutex (default)
  - db.Store: database/sql over an in-memory SQLite database

Both share ValidateMeeting and the error values below, so callers can
switch on errors.Is without knowing which one is in use.

# Errors

  - ErrDecisionNotFound, ErrMeetingNotFound, ErrMemberNotFound
  - ErrVotingClosed: the tally is closed and Options.AllowClosedVoting is off
  - ErrMissingFields: a new meeting lacks title, date or time
  - ErrInvalidInput: a value is present but not acceptable

Ledger rejections (ledger.ErrTallyMissing and friends) pass through
unwrapped.

Catalog keeps the read-mostly reference lists (documents, compliance
items, tenders).
*/
package store
