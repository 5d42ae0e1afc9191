// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tablepick API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Session lifecycle:

	POST   /sessions                           - Create session
	GET    /sessions/{invite}                  - Session view (lobby screen)
	POST   /sessions/{invite}/diners           - Join via invite
	PATCH  /sessions/{invite}/diners/{dinerID} - Change mode / browse-only
	DELETE /sessions/{invite}/diners/{dinerID} - Remove diner (X-Host-Key)

Voting walk:

	GET  /sessions/{invite}/current - Candidate under cursor, active voter
	POST /sessions/{invite}/votes   - Cast a vote
	POST /sessions/{invite}/handoff - Acknowledge pass-the-phone
	POST /sessions/{invite}/rounds  - Continue after a completed round
	POST /sessions/{invite}/restart - Re-walk an exhausted sequence

Shortlists and resolution:

	GET    /sessions/{invite}/shortlist                  - Maybe + unanimous lists
	POST   /sessions/{invite}/match                      - Explicit resolve (X-Host-Key)
	POST   /sessions/{invite}/match/random               - Random tiebreak
	POST   /sessions/{invite}/elimination                - Start veto rounds (X-Host-Key)
	DELETE /sessions/{invite}/elimination/{candidateID}  - One strike
	GET    /sessions/{invite}/preview                    - Share-bubble preview

Device management:

	POST /devices/register    - Register device
	GET  /devices/me          - Get device info
	GET  /devices/my-sessions - List device's sessions

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(db, cfg, st, cat)
	votingHandler := handlers.NewVotingHandler(db, cfg, st, cat)
	resultsHandler := handlers.NewResultsHandler(db, cfg, st, cat)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

Handlers share one store.Store and one candidates.Catalog; NewRouterWith
lets tests substitute either.
*/
package router
