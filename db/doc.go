// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - party_session: One row per session; full state as a JSON payload
  - restaurant: The candidate catalog
  - diner_token: Maps diner credentials to sessions
  - device: Registered devices
  - device_session: Links devices to sessions

# Relationships

	party_session 1──* diner_token
	device *──* party_session (via device_session)

All foreign keys use ON DELETE CASCADE.

# Dialect

The same DDL runs on Postgres (lib/pq) and SQLite (modernc.org/sqlite):
timestamps are always written from Go (no NOW() defaults), parameters use
$1 placeholders, and the session payload is plain TEXT holding JSON.
*/
package db
