// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
)

const (
	dataFileName     = "quiz_data.json"
	backupFilePrefix = "quiz_data_backup_"
	backupTimeLayout = "20060102_150405"
)

// JSONFile keeps the current snapshot in one file and a timestamped backup of
// the previous one next to it.
//
// Layout:
//
//	data_dir/
//	  quiz_data.json                          # current state
//	  quiz_data_backup_20250101_120000.json   # state before that save
type JSONFile struct {
	dir string
	log zerolog.Logger
	now func() time.Time
}

func NewJSONFile(dir string, log zerolog.Logger) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFile{dir: dir, log: log, now: time.Now}, nil
}

// Path returns the current snapshot file.
func (f *JSONFile) Path() string {
	return filepath.Join(f.dir, dataFileName)
}

func (f *JSONFile) backupPath(t time.Time) string {
	return filepath.Join(f.dir, backupFilePrefix+t.Format(backupTimeLayout)+".json")
}

func (f *JSONFile) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.Path(), err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path(), err)
	}
	return &snap, nil
}

// Save writes snap to a temp file, keeps the previous file as a backup and
// renames the temp file into place. A failed backup is logged only.
func (f *JSONFile) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, dataFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after the rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	f.backup()

	if err := os.Rename(tmpName, f.Path()); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path(), err)
	}
	f.syncDir()
	return nil
}

// syncDir flushes the directory entry written by the rename.
func (f *JSONFile) syncDir() {
	d, err := os.Open(f.dir)
	if err != nil {
		f.log.Warn().Err(err).Str("dir", f.dir).Msg("failed to open data dir for sync")
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		f.log.Warn().Err(err).Str("dir", f.dir).Msg("failed to sync data dir")
	}
}

// backup links the current file under a timestamped name. A backup from the
// same second is replaced.
func (f *JSONFile) backup() {
	if _, err := os.Stat(f.Path()); err != nil {
		return
	}
	name := f.backupPath(f.now())
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.log.Warn().Err(err).Str("backup", name).Msg("failed to replace backup")
		return
	}
	if err := os.Link(f.Path(), name); err != nil {
		f.log.Warn().Err(err).Str("backup", name).Msg("failed to create backup")
		return
	}
	f.log.Debug().Str("backup", name).Msg("backup created")
}

func (f *JSONFile) Close() error { return nil }
