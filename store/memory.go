// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"sync"

	"github.com/danielhkuo/quickly-ask/models"
)

// Memory keeps the encoded snapshot in memory. Useful for tests.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *Memory) Save(snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves returns the number of successful saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes every following Save return err; nil clears it.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
