// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
)

func newTestJSONFile(t *testing.T) (*JSONFile, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	f, err := NewJSONFile(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewJSONFile() error = %v", err)
	}
	f.now = func() time.Time { return fixedNow }
	return f, dir
}

func TestJSONFileLoadMissing(t *testing.T) {
	f, _ := newTestJSONFile(t)
	snap, err := f.Load()
	if err != nil || snap != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", snap, err)
	}
}

func TestJSONFileLoadCorrupt(t *testing.T) {
	f, _ := newTestJSONFile(t)
	if err := os.WriteFile(f.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Load(); err == nil {
		t.Error("expected parse error")
	}

	// The store still opens, empty.
	s := Open(f, Options{Logger: zerolog.Nop()})
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestJSONFileSaveKeepsBackup(t *testing.T) {
	f, dir := newTestJSONFile(t)

	first := &models.Snapshot{Questions: map[string]models.Question{}, Counter: 1}
	if err := f.Save(first); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if backups(t, dir) != nil {
		t.Error("backup created before any previous file existed")
	}

	second := &models.Snapshot{
		Questions: map[string]models.Question{"1": {Prompt: "Q", Options: []string{"A"}}},
		Counter:   2,
	}
	if err := f.Save(second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	b := backups(t, dir)
	want := "quiz_data_backup_20250314_150926.json"
	if len(b) != 1 || b[0] != want {
		t.Fatalf("backups = %v, want [%s]", b, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, want))
	if err != nil {
		t.Fatal(err)
	}
	var old models.Snapshot
	if err := json.Unmarshal(data, &old); err != nil {
		t.Fatal(err)
	}
	if old.Counter != 1 {
		t.Errorf("backup counter = %d, want 1", old.Counter)
	}

	cur, err := f.Load()
	if err != nil || cur.Counter != 2 {
		t.Errorf("Load() = %+v, %v", cur, err)
	}

	// A save in the same second replaces the backup instead of failing.
	if err := f.Save(first); err != nil {
		t.Fatalf("third Save() error = %v", err)
	}
	if b := backups(t, dir); len(b) != 1 {
		t.Errorf("backups after same-second save = %v", b)
	}
}

func TestJSONFileLeavesNoTempFiles(t *testing.T) {
	f, dir := newTestJSONFile(t)
	for i := 0; i < 3; i++ {
		if err := f.Save(&models.Snapshot{Counter: i + 1}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestJSONFileReadsLegacyFormat(t *testing.T) {
	f, _ := newTestJSONFile(t)
	legacy := `{
  "questions_db": {
    "4": {
      "question": "Capital of France?",
      "options": ["Paris", "Lyon"],
      "answers": {
        "1001": {"answer": "Paris", "name": "Ada", "username": "ada", "timestamp": "2024-05-01T10:20:30.123456"}
      }
    }
  },
  "question_counter": 5,
  "last_saved": "2024-05-01T10:20:31.000001"
}`
	if err := os.WriteFile(f.Path(), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(f, Options{Logger: zerolog.Nop()})
	q, ok := s.Get("4")
	if !ok {
		t.Fatal("question 4 not loaded")
	}
	a := q.Answers["1001"]
	if a.RespondentID != "1001" || a.Choice != "Paris" || a.Handle != "ada" {
		t.Errorf("answer = %+v", a)
	}
	if _, ok := a.Time(); !ok {
		t.Errorf("legacy timestamp %q not parsed", a.AnsweredAt)
	}
	if s.NextID() != 5 {
		t.Errorf("NextID() = %d, want 5", s.NextID())
	}
}

func backups(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, backupFilePrefix+"*.json"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names
}

func TestJSONFileSyncsDirectory(t *testing.T) {
	var logs bytes.Buffer
	f, dir := newTestJSONFile(t)
	f.log = zerolog.New(&logs).Level(zerolog.WarnLevel)

	if err := f.Save(&models.Snapshot{Questions: map[string]models.Question{}, Counter: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", logs.String())
	}

	// A directory that cannot be opened is reported, not returned.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	f.syncDir()
	if !strings.Contains(logs.String(), "failed to open data dir for sync") {
		t.Errorf("missing warning, got %q", logs.String())
	}
}
