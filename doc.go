// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tablepick API server.

Tablepick is a group restaurant-decision service: a party swipes through a
shared deck of candidate restaurants (accept/reject) until one candidate is
accepted by every diner, with pass-the-phone turn batching for the diners
sitting at the table and shortlist/random/elimination tiebreaks when the
deck runs out.

# Starting the Server

The server runs off a local SQLite file out of the box:

	HOST_KEY_SALT=dev-salt go run . -seed

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -host-salt dev-salt

# Configuration

Required settings:

  - HOST_KEY_SALT (-host-salt): Secret for host key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3414)
  - DATABASE_URL (-d): Connection string (default: file:tablepick.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BATCH_SIZE (-batch): Pass-the-phone batch size
  - SINGLE_DEVICE (-single-device): Shared-phone sessions (default: true)
  - -seed: Insert the sample restaurant catalog on startup

A .env file in the working directory is loaded before flags are parsed.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - party: Session state machine (roster, votes, turns, consensus)
  - candidates: Restaurant catalog and ranking
  - store: Session persistence (one JSON payload per session)
  - handlers: HTTP request handlers (sessions, voting, results, devices)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - models: Request/response types
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
