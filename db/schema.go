// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the whole database in process memory.
const DefaultDSN = "file:boardroom?mode=memory&cache=shared"

// Open connects to SQLite and pins the pool to one connection, so an
// in-memory database lives as long as the returned handle.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Board members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    total_votes INTEGER NOT NULL DEFAULT 0,
    correct_votes INTEGER NOT NULL DEFAULT 0,
    success_rate REAL NOT NULL DEFAULT 0,
    key_areas TEXT NOT NULL DEFAULT 'null'
);

-- Meetings
CREATE TABLE IF NOT EXISTS meeting (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK (status IN ('confirmed', 'tentative', 'canceled')),
    summary TEXT NOT NULL DEFAULT '',
    agenda TEXT NOT NULL DEFAULT '{}',
    attendees TEXT NOT NULL DEFAULT 'null'
);

CREATE INDEX IF NOT EXISTS idx_meeting_date ON meeting(date);

-- Decisions; tally columns are NULL when the decision has no tally
CREATE TABLE IF NOT EXISTS decision (
    id TEXT PRIMARY KEY,
    meeting_id TEXT NOT NULL REFERENCES meeting(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    outcome TEXT CHECK (outcome IN ('success', 'failure', 'needs-review')),
    notes TEXT NOT NULL DEFAULT '',
    tally_status TEXT CHECK (tally_status IN ('open', 'closed')),
    in_favor INTEGER NOT NULL DEFAULT 0 CHECK (in_favor >= 0),
    against INTEGER NOT NULL DEFAULT 0 CHECK (against >= 0),
    abstain INTEGER NOT NULL DEFAULT 0 CHECK (abstain >= 0)
);

CREATE INDEX IF NOT EXISTS idx_decision_meeting_id ON decision(meeting_id);

-- One row per eligible member per decision; vote is NULL until cast
CREATE TABLE IF NOT EXISTS member_vote (
    decision_id TEXT NOT NULL REFERENCES decision(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES member(id),
    position INTEGER NOT NULL,
    vote TEXT CHECK (vote IN ('in-favor', 'against', 'abstain')),
    PRIMARY KEY (decision_id, member_id)
);
`
