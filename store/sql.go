// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kylemcd/tablepick/party"
)

// SQLStore keeps one row per session in party_session, with the whole
// aggregate serialized to the payload column. Works against both
// Postgres and SQLite; the upsert and $1 placeholders are the shared
// dialect.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(inviteID string) (*party.Session, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM party_session WHERE invite_id = $1`, inviteID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", inviteID, err)
	}

	var sess party.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", inviteID, err)
	}
	return &sess, nil
}

func (s *SQLStore) Save(sess *party.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.InviteID, err)
	}

	_, err = s.db.Exec(`INSERT INTO party_session (invite_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (invite_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		sess.InviteID, string(payload), sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.InviteID, err)
	}
	return nil
}

func (s *SQLStore) Delete(inviteID string) error {
	res, err := s.db.Exec(`DELETE FROM party_session WHERE invite_id = $1`, inviteID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", inviteID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
