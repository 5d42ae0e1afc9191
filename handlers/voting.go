// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/kylemcd/tablepick/auth"
	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/cliparse"
	"github.com/kylemcd/tablepick/middleware"
	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
)

type VotingHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	store   store.Store
	catalog candidates.Catalog
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, st store.Store, cat candidates.Catalog) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, store: st, catalog: cat}
}

// Current handles GET /sessions/{invite}/current
// Returns the candidate under the cursor, whose swipe is next, and how far
// into the batch window the table is.
func (h *VotingHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.currentView(sess))
}

// Cast handles POST /sessions/{invite}/votes
//
// Two paths share this endpoint. Without candidate_id the ballot lands on
// the candidate under the cursor and the walk advances (the swipe UI).
// With candidate_id the vote is recorded on that candidate directly, no
// cursor movement - remote diners filling in earlier candidates. Both
// paths resolve the session the moment a candidate becomes unanimous.
func (h *VotingHandler) Cast(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote := party.Vote(req.Vote)
	if vote != party.VoteAccept && vote != party.VoteReject {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote must be accept or reject")
		return
	}

	dinerID, ok := h.verifyDiner(w, r, sess, req.DinerID)
	if !ok {
		return
	}
	req.DinerID = dinerID

	var resp models.CastVoteResponse

	current, _ := sess.CurrentCandidate()
	if req.CandidateID == "" || (req.CandidateID == current && sess.Phase == party.PhaseAwaitingVote) {
		out, err := sess.CastBallot(req.DinerID, vote)
		if err != nil {
			middleware.ErrorFrom(w, err)
			return
		}
		resp = models.CastVoteResponse{
			CandidateID: out.CandidateID,
			DinerID:     out.DinerID,
			Vote:        string(out.Vote),
			Matched:     out.Matched,
			Phase:       string(out.Phase),
		}
	} else {
		if req.DinerID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "diner_id is required for out-of-sequence votes")
			return
		}
		if err := sess.RecordVote(req.DinerID, req.CandidateID, vote); err != nil {
			middleware.ErrorFrom(w, err)
			return
		}
		matched := false
		if sess.Unanimous(req.CandidateID) {
			if err := sess.Resolve(req.CandidateID); err != nil {
				middleware.ErrorFrom(w, err)
				return
			}
			matched = true
		}
		resp = models.CastVoteResponse{
			CandidateID: req.CandidateID,
			DinerID:     req.DinerID,
			Vote:        string(vote),
			Matched:     matched,
			Phase:       string(sess.Phase),
		}
	}

	if !resp.Matched {
		if next, err := sess.ActiveVoter(); err == nil {
			resp.NextVoter = next
		}
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote cast",
		"invite_id", sess.InviteID,
		"diner", resp.DinerID,
		"candidate", resp.CandidateID,
		"vote", resp.Vote,
		"matched", resp.Matched,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Handoff handles POST /sessions/{invite}/handoff
// The next in-person diner confirms they hold the phone.
func (h *VotingHandler) Handoff(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := sess.AcknowledgeHandoff(); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to acknowledge handoff")
		return
	}

	slog.Info("handoff acknowledged", "invite_id", sess.InviteID)

	middleware.JSONResponse(w, http.StatusOK, h.currentView(sess))
}

// ContinueRound handles POST /sessions/{invite}/rounds
// Opens the next batch after every in-person diner finished the window.
func (h *VotingHandler) ContinueRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := sess.ContinueRound(); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to continue round")
		return
	}

	slog.Info("round continued", "invite_id", sess.InviteID, "round_start", sess.RoundStart)

	middleware.JSONResponse(w, http.StatusOK, h.currentView(sess))
}

// Restart handles POST /sessions/{invite}/restart
// Rewinds an exhausted sequence so the table can re-walk it with their
// earlier votes intact.
func (h *VotingHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := sess.Restart(); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to restart")
		return
	}

	slog.Info("sequence restarted", "invite_id", sess.InviteID)

	middleware.JSONResponse(w, http.StatusOK, h.currentView(sess))
}

// verifyDiner resolves the voting identity for a ballot. Single-device
// sessions trust the shared phone and pass the claimed diner through. A
// multi-device session requires the X-Diner-Token issued at join; the token
// names the diner, and a claimed diner_id that contradicts it is refused.
// Tokens are also honored when present on single-device sessions.
func (h *VotingHandler) verifyDiner(w http.ResponseWriter, r *http.Request, sess *party.Session, claimed string) (string, bool) {
	token := r.Header.Get("X-Diner-Token")
	if token == "" {
		if sess.SingleDevice {
			return claimed, true
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Diner-Token header required")
		return "", false
	}

	var dinerID string
	err := h.db.QueryRow(`
		SELECT diner_id FROM diner_token
		WHERE invite_id = $1 AND token = $2
	`, sess.InviteID, token).Scan(&dinerID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid diner token for this session")
		return "", false
	}
	if err != nil {
		slog.Error("failed to verify diner token", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", false
	}

	if claimed != "" && claimed != dinerID {
		middleware.ErrorResponse(w, http.StatusForbidden, "diner token does not match diner_id")
		return "", false
	}

	// Track where the authenticated ballot came from
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.HostKeySalt) // Reuse host salt for IP hashing
	_, err = h.db.Exec(`
		UPDATE diner_token SET ip_hash = $1, user_agent = $2, last_vote_at = $3
		WHERE invite_id = $4 AND diner_id = $5
	`, ipHash, r.UserAgent(), time.Now(), sess.InviteID, dinerID)
	if err != nil {
		slog.Error("failed to record ballot origin", "invite_id", sess.InviteID, "error", err)
	}

	return dinerID, true
}

func (h *VotingHandler) loadSession(w http.ResponseWriter, r *http.Request) (*party.Session, bool) {
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

func (h *VotingHandler) currentView(sess *party.Session) models.CurrentResponse {
	cast, window := sess.BatchProgress()
	resp := models.CurrentResponse{
		Phase:     string(sess.Phase),
		Cursor:    sess.Cursor,
		Total:     len(sess.Candidates),
		BatchCast: cast,
		BatchSize: window,
	}
	if sess.Matched() {
		resp.Phase = "matched"
		return resp
	}

	if id, err := sess.CurrentCandidate(); err == nil {
		resp.CandidateID = id
		if found, err := h.catalog.ByIDs([]string{id}); err == nil && len(found) == 1 {
			resp.Candidate = &found[0]
		}
	}
	if voter, err := sess.ActiveVoter(); err == nil {
		resp.ActiveVoter = voter
	}
	return resp
}
