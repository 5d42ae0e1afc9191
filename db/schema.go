// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL sticks to the dialect both Postgres and SQLite accept:
// timestamps are written from Go rather than defaulted with NOW(), and
// the session payload is JSON in a TEXT column rather than JSONB.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions. The full session state (roster, ledger, cursor, phases) lives
-- as one JSON payload; relational columns exist only for lookup.
CREATE TABLE IF NOT EXISTS party_session (
    invite_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Restaurant catalog
CREATE TABLE IF NOT EXISTS restaurant (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    rating REAL NOT NULL DEFAULT 0,
    price_tier INTEGER NOT NULL DEFAULT 1,
    cuisines TEXT NOT NULL DEFAULT '[]',
    address TEXT NOT NULL DEFAULT '',
    lat REAL NOT NULL DEFAULT 0,
    lng REAL NOT NULL DEFAULT 0,
    photo_urls TEXT NOT NULL DEFAULT '[]',
    description TEXT NOT NULL DEFAULT '',
    family_friendly BOOLEAN NOT NULL DEFAULT FALSE,
    distance_km REAL NOT NULL DEFAULT 0
);

-- Diner Tokens
CREATE TABLE IF NOT EXISTS diner_token (
    invite_id TEXT NOT NULL REFERENCES party_session(invite_id) ON DELETE CASCADE,
    diner_id TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    ip_hash TEXT,
    user_agent TEXT,
    last_vote_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (invite_id, diner_id)
);

CREATE INDEX IF NOT EXISTS idx_diner_token_token ON diner_token(token);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

-- Device / Session links
CREATE TABLE IF NOT EXISTS device_session (
    device_id TEXT NOT NULL REFERENCES device(id) ON DELETE CASCADE,
    invite_id TEXT NOT NULL REFERENCES party_session(invite_id) ON DELETE CASCADE,
    diner_id TEXT,
    role TEXT NOT NULL DEFAULT 'diner',
    linked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (device_id, invite_id)
);

CREATE INDEX IF NOT EXISTS idx_device_session_device ON device_session(device_id);
`
