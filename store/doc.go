// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store persists party sessions.
//
// A session is small and changes as a whole on every request, so it is
// stored as a single JSON payload per row rather than being shredded
// across relational tables. SQLStore is the production adapter (Postgres
// or SQLite behind database/sql); MemStore backs tests.
package store
