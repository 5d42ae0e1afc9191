// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: host diner, filters, preference profiles, session knobs
  - JoinSessionRequest: diner_id, mode
  - UpdateDinerRequest: mode and/or browse_only
  - CastVoteRequest: vote, optional diner_id and candidate_id
  - ResolveRequest: candidate_id
  - StartEliminationRequest: shortlist choice, eliminators
  - RegisterDeviceRequest: platform

# Response Types

Types for JSON responses:

  - CreateSessionResponse: invite_id, host_key
  - JoinSessionResponse: diner_id, diner_token
  - CastVoteResponse: the recorded ballot plus the resulting phase
  - CurrentResponse: current candidate, active voter, batch progress
  - ShortlistResponse: candidate ids with at least one accept
  - MatchResponse: the matched restaurant
  - EliminationResponse: remaining entries and whose strike is next
  - SessionResponse: full session view for the lobby screen
  - PreviewResponse: ranked candidates with human-readable labels
  - ErrorResponse: error, message

The session's own state (roster, ledger, cursor) lives in the party
package; models only shapes it for the wire.

# Constants

Device roles:

	RoleHost  = "host"
	RoleDiner = "diner"

Platforms:

	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
*/
package models
