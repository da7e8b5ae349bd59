// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-token         Bot API token
	-data          Data directory (default ./data)
	-store         json, sqlite, postgres or memory (default json)
	-d             Database URL
	-allow-ids     Operator user IDs, comma-separated
	-allow-users   Operator usernames, comma-separated
	-metrics-port  Port for /health, /ready and /metrics (0 disables)
	-log-level     debug, info, warn or error
	-log-pretty    Console log output
	-session-ttl   Idle timeout for operator sessions (default 30m)
	-message-limit Longest message sent, in characters (default 4000)
	-env-file      Dotenv file to load (default .env, missing is fine)

# Environment Variables

Flags fall back to environment variables:

	BOT_TOKEN         → -token
	DATA_DIR          → -data
	STORE_BACKEND     → -store
	DATABASE_URL      → -d
	ALLOWED_USER_IDS  → -allow-ids
	ALLOWED_USERNAMES → -allow-users
	METRICS_PORT      → -metrics-port
	LOG_LEVEL         → -log-level
	LOG_PRETTY        → -log-pretty
	SESSION_TTL       → -session-ttl
	MESSAGE_LIMIT     → -message-limit

CLI flags take precedence over environment variables. The dotenv file only
fills variables that are not already set.

# Validation

ParseFlags returns an error if:

  - BOT_TOKEN is missing
  - the backend is postgres and DATABASE_URL is missing
  - the backend name is unknown
  - a numeric or duration value does not parse
*/
package cliparse
