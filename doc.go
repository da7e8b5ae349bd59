// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Quickly Ask is a chat bot that lets a small set of operators author
multiple-choice questions, broadcast them to group chats, collect one answer
per participant and read back per-question statistics.

# Running

	BOT_TOKEN=... ALLOWED_USER_IDS=1001 go run .

Flags override environment variables, which override a .env file:

	-token         BOT_TOKEN           Bot API token (required)
	-data          DATA_DIR            Data directory (default ./data)
	-store         STORE_BACKEND       json, sqlite, postgres or memory
	-d             DATABASE_URL        SQL data source for sqlite/postgres
	-allow-ids     ALLOWED_USER_IDS    Comma-separated operator IDs
	-allow-users   ALLOWED_USERNAMES   Comma-separated operator handles
	-metrics-port  METRICS_PORT        /health, /ready and /metrics (0 disables)
	-log-level     LOG_LEVEL           debug, info, warn or error
	-session-ttl   SESSION_TTL         Idle timeout for operator flows
	-message-limit MESSAGE_LIMIT       Longest message sent, in characters

# Packages

	models     - Questions, answers, snapshots and transport-neutral messages
	store      - Question store with JSON file, SQL and memory persistence
	db         - SQL connection and snapshot schema
	flow       - Authoring and management state machines
	session    - Per-operator flow sessions with idle expiry
	callback   - Control payload encoding
	handlers   - Command, text and control handlers
	telegram   - Bot API transport
	router     - Bot routes and observability endpoints
	middleware - Update tracing, panic recovery, HTTP logging
	auth       - Operator allow-list
	cliparse   - Configuration
	logger     - zerolog setup
	metrics    - Prometheus collectors
	testutil   - Shared test fixtures and a recording messenger
*/
package main
