// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements HTTP request handlers for the tablepick API.

# Handler Organization

Handlers are grouped by concern:

  - SessionHandler: session lifecycle (create, view, join, roster changes)
  - VotingHandler: the candidate walk (current, votes, handoff, rounds, restart)
  - ResultsHandler: shortlists, resolution, elimination tiebreak, preview
  - DeviceHandler: device registration and device-session tracking

Every session handler follows the same load-mutate-save cycle: load the
session payload through store.Store, apply the party-package operation,
save the whole payload back. The party package owns the rules; handlers
own the wire shapes, the status codes, and persistence.

# Authentication

Host-privileged operations (removing a diner, explicit resolution,
starting elimination) require the X-Host-Key header. Host keys are
derived with HMAC from the invite id and never stored; see the auth
package. Devices identify themselves with X-Device-UUID, diners hold an
X-Diner-Token issued at join. Single-device sessions trust the shared
phone and take ballots without a token; multi-device sessions require
one on every vote, and the token names the voter. Authenticated ballots
record a salted hash of the client IP for abuse tracking.

# Error Mapping

Domain errors map onto HTTP statuses through middleware.ErrorFrom:
unknown sessions are 404, unknown diners 422, malformed input 400,
state-machine conflicts (pending handoff, completed round, matched
session) 409, and voting out of turn 403.
*/
package handlers
