// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/google/uuid"
)

// SQL stores snapshots as rows in quiz_snapshot. Every save adds a row, so
// earlier rows are the backups.
type SQL struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQL wraps an open connection whose schema has been created (see db.Open).
func NewSQL(conn *sql.DB) *SQL {
	return &SQL{db: conn, now: time.Now}
}

func (s *SQL) Load() (*models.Snapshot, error) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM quiz_snapshot
		ORDER BY revision DESC
		LIMIT 1
	`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

func (s *SQL) Save(snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	// Revisions order snapshots independently of the wall clock.
	var revision int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(revision), 0) FROM quiz_snapshot").Scan(&revision); err != nil {
		return fmt.Errorf("read snapshot revision: %w", err)
	}

	now := s.now()
	_, err = tx.Exec(`
		INSERT INTO quiz_snapshot (id, revision, saved_at, saved_unix_nano, question_count, question_counter, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), revision+1, now.Format(time.RFC3339Nano), now.UnixNano(), len(snap.Questions), snap.Counter, string(payload))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Count returns the number of stored snapshots.
func (s *SQL) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM quiz_snapshot").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) Close() error {
	return s.db.Close()
}
