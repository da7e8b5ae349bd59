// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db manages SQL connections and the schema for the SQL snapshot backends.

# Backends

	conn, err := db.Open(db.TypeSQLite, "data/quiz.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite uses the pure-Go modernc.org/sqlite driver; PostgreSQL uses lib/pq.
Open pings the database and runs CreateSchema before returning.

# Tables

quiz_snapshot holds one row per save:

  - id: random UUID
  - saved_at: RFC 3339 save time
  - saved_unix_nano: ordering key
  - question_count, question_counter: summary columns for inspection
  - payload: the JSON snapshot, same format as the JSON file backend

The newest row is the current state; older rows are kept as backups.

Queries use $N placeholders, which both drivers accept.
*/
package db
