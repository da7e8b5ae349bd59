// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store owns the question and answer data and its persistence.

# Store

A Store is opened once at startup from a Persister and shared by every
handler:

	p, err := store.NewPersister(cfg.StoreBackend, cfg.DataDir, cfg.DatabaseURL, log)
	st := store.Open(p, store.Options{Logger: log, Metrics: m})

Open never fails. A missing snapshot starts an empty store; an unreadable one
is logged and also starts empty.

Every mutation (CreateQuestion, RecordAnswer, DeleteQuestion, Renumber) holds
the write lock while it changes memory and saves, so concurrent answers and
creates are serialized. A failed save is logged and returned but the memory
change stays; the next successful save writes it out.

Reads (Get, List, Snapshot, Export) return copies.

# Question IDs

IDs are decimal strings taken from a counter. The counter only grows: on load
it is raised above every stored ID, and Renumber compacts existing IDs to
1..N without lowering it.

# Answers

RecordAnswer is insert-only per respondent. A repeat answer returns
*AlreadyAnsweredError with the stored answer:

	_, err := st.RecordAnswer(id, answer)
	var dup *store.AlreadyAnsweredError
	if errors.As(err, &dup) {
		// dup.Prior.Choice is what the respondent picked first
	}

# Persisters

  - JSONFile: quiz_data.json written through a temp file and rename; the
    previous file is kept as quiz_data_backup_<YYYYmmdd_HHMMSS>.json
  - SQL: one quiz_snapshot row per save on SQLite or PostgreSQL
  - Memory: for tests
*/
package store
