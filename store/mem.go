// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"sync"

	"github.com/kylemcd/tablepick/party"
)

// MemStore is an in-memory Store for tests. Sessions round-trip through
// JSON on every call so it exercises the same serialization path as
// SQLStore and callers can't share state by accident.
type MemStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string][]byte)}
}

func (m *MemStore) Load(inviteID string) (*party.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.sessions[inviteID]
	if !ok {
		return nil, ErrNotFound
	}
	var sess party.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *MemStore) Save(sess *party.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.InviteID] = payload
	return nil
}

func (m *MemStore) Delete(inviteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[inviteID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, inviteID)
	return nil
}
