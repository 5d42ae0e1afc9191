// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package candidates supplies the restaurant sequences that sessions swipe
// through.
//
// # Providers
//
// A Provider turns a filter snapshot plus optional diner preference
// profiles into an ordered, deduplicated candidate list. The list is
// captured once at session creation and never re-queried, so every diner
// sees the same deck in the same order.
//
// Two providers ship here: Static, a fixed slice for tests and demos, and
// SQLCatalog, which reads the restaurant table and ranks in memory.
//
// # Ranking
//
// Rank is pure: hard filters first (price tier, distance, rating floor,
// family-friendly, cuisine overlap), then a stable sort on rating plus the
// mean cuisine-preference boost over the supplied profiles, ties broken
// by id so the sequence is deterministic.
package candidates
