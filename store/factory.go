// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielhkuo/quickly-ask/db"
	"github.com/rs/zerolog"
)

// Backend names
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// NewPersister creates a Persister based on the backend name.
//
// Supported backends:
//
//	"json"     - quiz_data.json in dataDir (default)
//	"sqlite"   - SQLite database at dsn, or dataDir/quiz.db
//	"postgres" - PostgreSQL at dsn
//	"memory"   - in-memory (ephemeral, for testing)
func NewPersister(backend, dataDir, dsn string, log zerolog.Logger) (Persister, error) {
	switch backend {
	case BackendJSON, "":
		f, err := NewJSONFile(dataDir, log)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		if dsn == "" {
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			dsn = filepath.Join(dataDir, "quiz.db")
		}
		conn, err := db.Open(db.TypeSQLite, dsn)
		if err != nil {
			return nil, err
		}
		return NewSQL(conn), nil
	case BackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires a database URL")
		}
		conn, err := db.Open(db.TypePostgres, dsn)
		if err != nil {
			return nil, err
		}
		return NewSQL(conn), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, postgres, memory)", backend)
	}
}
