// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the boardroom API server.

Boardroom backs a board-management dashboard: meetings and their agendas,
decisions voted on by board members, governance portal deadlines and
tenders. Each decision carries a vote tally whose counters always agree
with the per-member votes.

# Starting the Server

The server runs on built-in seed data with no configuration:

	go run .

Or with flags:

	go run . -p 3318 --store sqlite --log-format json

# Configuration

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORE (-s): memory or sqlite (default: memory)
  - DATABASE_URL (-d): SQLite DSN (default: shared in-memory database)
  - SEED_FILE (--seed): YAML file replacing the built-in seed
  - CURRENT_MEMBER_ID (--member): Acting board member (default: bm1)
  - ALLOW_MEMBER_HEADER (--allow-member-header): Honor X-Member-ID
  - ALLOW_CLOSED_VOTING (--allow-closed-voting): Accept votes on closed tallies
  - LOG_FORMAT, LOG_LEVEL: Logging

Settings may also come from a .env file.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: Pure vote application and tally folds
  - store: The Board interface, in-memory store and reference catalog
  - db: SQLite-backed Board
  - seed: Embedded YAML seed data
  - handlers: HTTP request handlers (meetings, decisions, members, documents, compliance, tenders)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - session: Acting member resolution
  - models: Domain, request and response types
  - dates: Date parsing and display
  - logging: slog setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
