// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the SQL-backed board store.

# Opening

Open connects through the pure-Go modernc.org/sqlite driver and pins the
pool to a single connection. The default DSN keeps everything in memory:

	conn, err := db.Open(db.DefaultDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - member: Board members and their voting record
  - meeting: Meeting metadata; agenda and attendees stored as JSON text
  - decision: Voting items with outcome and tally counters
  - member_vote: One row per eligible member per decision

# Relationships

	meeting 1──* decision
	decision 1──* member_vote
	member 1──* member_vote

# Writes

Store implements store.Board. Every write reads the decision, applies the
change (votes go through ledger.ApplyVote) and writes it back inside one
transaction, so a rejected vote never touches the tables.
*/
package db
