// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/cliparse"
	"github.com/kylemcd/tablepick/handlers"
	"github.com/kylemcd/tablepick/middleware"
	"github.com/kylemcd/tablepick/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	st := store.NewSQLStore(db)
	cat := candidates.NewSQLCatalog(db)
	return NewRouterWith(db, cfg, st, cat)
}

// NewRouterWith wires the routes against explicit store and catalog
// implementations, mainly for tests.
func NewRouterWith(db *sql.DB, cfg cliparse.Config, st store.Store, cat candidates.Catalog) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg, st, cat)
	votingHandler := handlers.NewVotingHandler(db, cfg, st, cat)
	resultsHandler := handlers.NewResultsHandler(db, cfg, st, cat)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.Create))
	mux.HandleFunc("GET /sessions/{invite}", middleware.WithLogging(sessionHandler.Get))
	mux.HandleFunc("POST /sessions/{invite}/diners", middleware.WithLogging(sessionHandler.Join))
	mux.HandleFunc("PATCH /sessions/{invite}/diners/{dinerID}", middleware.WithLogging(sessionHandler.UpdateDiner))
	mux.HandleFunc("DELETE /sessions/{invite}/diners/{dinerID}", middleware.WithLogging(sessionHandler.RemoveDiner))

	// Voting walk
	mux.HandleFunc("GET /sessions/{invite}/current", middleware.WithLogging(votingHandler.Current))
	mux.HandleFunc("POST /sessions/{invite}/votes", middleware.WithLogging(votingHandler.Cast))
	mux.HandleFunc("POST /sessions/{invite}/handoff", middleware.WithLogging(votingHandler.Handoff))
	mux.HandleFunc("POST /sessions/{invite}/rounds", middleware.WithLogging(votingHandler.ContinueRound))
	mux.HandleFunc("POST /sessions/{invite}/restart", middleware.WithLogging(votingHandler.Restart))

	// Shortlists, resolution, tiebreaks
	mux.HandleFunc("GET /sessions/{invite}/shortlist", middleware.WithLogging(resultsHandler.Shortlist))
	mux.HandleFunc("POST /sessions/{invite}/match", middleware.WithLogging(resultsHandler.Resolve))
	mux.HandleFunc("POST /sessions/{invite}/match/random", middleware.WithLogging(resultsHandler.RandomPick))
	mux.HandleFunc("POST /sessions/{invite}/elimination", middleware.WithLogging(resultsHandler.StartElimination))
	mux.HandleFunc("DELETE /sessions/{invite}/elimination/{candidateID}", middleware.WithLogging(resultsHandler.Eliminate))
	mux.HandleFunc("GET /sessions/{invite}/preview", middleware.WithLogging(resultsHandler.Preview))

	// Device management
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))
	mux.HandleFunc("GET /devices/my-sessions", middleware.WithLogging(deviceHandler.GetMySessions))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tablepick API v1"))
	})

	return mux
}
