// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kylemcd/tablepick/auth"
	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/cliparse"
	"github.com/kylemcd/tablepick/middleware"
	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
)

type ResultsHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	store   store.Store
	catalog candidates.Catalog
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, st store.Store, cat candidates.Catalog) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg, store: st, catalog: cat}
}

// Shortlist handles GET /sessions/{invite}/shortlist
// The maybe-shortlist (anyone accepted) plus the unanimous subset.
func (h *ResultsHandler) Shortlist(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	ids := sess.MaybeShortlist()
	resp := models.ShortlistResponse{
		CandidateIDs: ids,
		Unanimous:    sess.UnanimousShortlist(),
	}
	if found, err := h.catalog.ByIDs(ids); err == nil {
		resp.Candidates = found
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Resolve handles POST /sessions/{invite}/match
// Host-driven explicit resolution on a shortlisted candidate.
func (h *ResultsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if !h.requireHostKey(w, r, sess.InviteID) {
		return
	}

	var req models.ResolveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	if err := sess.Resolve(req.CandidateID); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to resolve session")
		return
	}

	slog.Info("session resolved", "invite_id", sess.InviteID, "candidate", req.CandidateID)

	middleware.JSONResponse(w, http.StatusOK, matchView(sess.Match, h.catalog))
}

// RandomPick handles POST /sessions/{invite}/match/random
// Uniform pick over the maybe-shortlist, the exhausted-deck tiebreak.
func (h *ResultsHandler) RandomPick(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	picked, err := party.RandomPick(sess.MaybeShortlist())
	if err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := sess.Resolve(picked); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to resolve session")
		return
	}

	slog.Info("session resolved by random pick", "invite_id", sess.InviteID, "candidate", picked)

	middleware.JSONResponse(w, http.StatusOK, matchView(sess.Match, h.catalog))
}

// StartElimination handles POST /sessions/{invite}/elimination
// Freezes a shortlist and an eliminator order for round-robin vetoes.
func (h *ResultsHandler) StartElimination(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if !h.requireHostKey(w, r, sess.InviteID) {
		return
	}

	var req models.StartEliminationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	shortlist := req.CandidateIDs
	if len(shortlist) == 0 {
		switch req.Shortlist {
		case "", "any":
			shortlist = sess.MaybeShortlist()
		case "unanimous":
			shortlist = sess.UnanimousShortlist()
		default:
			middleware.ErrorResponse(w, http.StatusBadRequest, "shortlist must be any or unanimous")
			return
		}
	}

	eliminators := req.Eliminators
	if len(eliminators) == 0 {
		// Default to the non-browse-only roster in seating order.
		for _, d := range sess.Roster {
			if !d.BrowseOnly {
				eliminators = append(eliminators, d.DinerID)
			}
		}
	} else {
		for _, id := range eliminators {
			if _, found := sess.Diner(id); !found {
				middleware.ErrorResponse(w, http.StatusUnprocessableEntity,
					fmt.Sprintf("unknown eliminator %q", id))
				return
			}
		}
	}

	if err := sess.StartElimination(shortlist, eliminators); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start elimination")
		return
	}

	slog.Info("elimination started",
		"invite_id", sess.InviteID,
		"entries", len(shortlist),
		"eliminators", len(eliminators),
	)

	middleware.JSONResponse(w, http.StatusCreated, h.eliminationView(sess))
}

// Eliminate handles DELETE /sessions/{invite}/elimination/{candidateID}
// One strike by the active eliminator. A diner_id query param, when
// present, must name that eliminator.
func (h *ResultsHandler) Eliminate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	candidateID := r.PathValue("candidateID")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	if dinerID := r.URL.Query().Get("diner_id"); dinerID != "" && sess.Elimination != nil {
		if active := sess.Elimination.ActiveEliminator(); dinerID != active {
			middleware.ErrorResponse(w, http.StatusForbidden,
				fmt.Sprintf("it is %s's turn to eliminate", active))
			return
		}
	}

	if err := sess.Eliminate(candidateID); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to eliminate")
		return
	}

	slog.Info("candidate eliminated", "invite_id", sess.InviteID, "candidate", candidateID)

	middleware.JSONResponse(w, http.StatusOK, h.eliminationView(sess))
}

// Preview handles GET /sessions/{invite}/preview
// A compact, human-readable view of the deck for share bubbles.
func (h *ResultsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	found, err := h.catalog.ByIDs(sess.Candidates)
	if err != nil {
		slog.Error("failed to load candidates", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load preview")
		return
	}

	previews := make([]models.CandidatePreview, len(found))
	for i, c := range found {
		previews[i] = models.CandidatePreview{
			Candidate:     c,
			PriceLabel:    strings.Repeat("$", c.PriceTier),
			DistanceLabel: fmt.Sprintf("%s km away", humanize.FtoaWithDigits(c.DistanceKm, 1)),
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PreviewResponse{Candidates: previews})
}

func (h *ResultsHandler) loadSession(w http.ResponseWriter, r *http.Request) (*party.Session, bool) {
	inviteID := r.PathValue("invite")
	if inviteID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite id is required")
		return nil, false
	}

	sess, err := h.store.Load(inviteID)
	if err != nil {
		middleware.ErrorFrom(w, err)
		return nil, false
	}
	return sess, true
}

func (h *ResultsHandler) requireHostKey(w http.ResponseWriter, r *http.Request, inviteID string) bool {
	key := r.Header.Get("X-Host-Key")
	if err := auth.ValidateHostKey(inviteID, key, h.cfg.HostKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid host key")
		return false
	}
	return true
}

func (h *ResultsHandler) eliminationView(sess *party.Session) models.EliminationResponse {
	resp := models.EliminationResponse{Resolved: sess.Matched()}
	if sess.Match != nil {
		resp.MatchedCandidate = sess.Match.CandidateID
	}
	if e := sess.Elimination; e != nil {
		resp.Remaining = e.Remaining
		resp.Eliminators = e.Eliminators
		resp.Turn = e.Turn
		if !sess.Matched() {
			resp.ActiveEliminator = e.ActiveEliminator()
		}
	}
	return resp
}
