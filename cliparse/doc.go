// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - Store: Board store, memory or sqlite (default: memory)
  - DatabaseURL: SQLite DSN for the sqlite store (default: in-memory)
  - SeedFile: YAML file replacing the built-in seed data
  - CurrentMemberID: Board member acting as the current user (default: bm1)
  - AllowMemberHeader: Honor X-Member-ID for development
  - AllowClosedVoting: Accept votes on closed tallies
  - LogFormat: auto, text or json (default: auto)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p, --port                Server port
	-s, --store               Board store
	-d, --database-url        SQLite DSN
	--seed                    Seed file
	--member                  Current member id
	--allow-member-header     Honor X-Member-ID
	--allow-closed-voting     Accept votes on closed tallies
	--log-format              Log format
	--log-level               Log level
	--env-file                Environment file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	STORE               → -s
	DATABASE_URL        → -d
	SEED_FILE           → --seed
	CURRENT_MEMBER_ID   → --member
	ALLOW_MEMBER_HEADER → --allow-member-header
	ALLOW_CLOSED_VOTING → --allow-closed-voting
	LOG_FORMAT          → --log-format
	LOG_LEVEL           → --log-level
	ENV_FILE            → --env-file

CLI flags take precedence over environment variables, and variables
already in the environment take precedence over the env file. A missing
env file is ignored.

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	mux := router.NewRouter(board, catalog, cfg)
*/
package cliparse
