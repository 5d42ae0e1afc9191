// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/kylemcd/tablepick/auth"
	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/cliparse"
	"github.com/kylemcd/tablepick/middleware"
	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
)

type SessionHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	store   store.Store
	catalog candidates.Catalog
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config, st store.Store, cat candidates.Catalog) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg, store: st, catalog: cat}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	hostDinerID := req.HostDinerID
	if hostDinerID == "" {
		hostDinerID = uuid.NewString()
	}
	hostMode := party.AttendanceMode(req.HostMode)
	if hostMode == "" {
		hostMode = party.ModeInPerson
	}

	inviteID, err := auth.GenerateInviteID()
	if err != nil {
		slog.Error("failed to generate invite id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	hostKey := auth.GenerateHostKey(inviteID, h.cfg.HostKeySalt)

	// A broken catalog degrades to an empty deck, not a failed session.
	found, err := h.catalog.Search(req.Filters, req.Profiles)
	if err != nil {
		slog.Error("candidate search failed", "invite_id", inviteID, "error", err)
		found = nil
	}

	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = h.cfg.BatchSize
	}

	sess := party.NewSession(inviteID, hostDinerID, req.Filters, candidates.IDs(found), batchSize)
	sess.ScheduledAt = req.ScheduledAt
	if req.SingleDevice != nil {
		sess.SingleDevice = *req.SingleDevice
	} else {
		sess.SingleDevice = h.cfg.SingleDevice
	}

	if _, err := sess.AddDiner(hostDinerID, hostMode); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", inviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Link the creating device as host, if one identified itself
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Error("failed to resolve device", "error", err)
	} else if err := LinkDeviceToSession(h.db, deviceID, inviteID, models.RoleHost, &hostDinerID); err != nil {
		slog.Error("failed to link device", "invite_id", inviteID, "error", err)
	}

	slog.Info("session created",
		"invite_id", inviteID,
		"host", hostDinerID,
		"candidates", len(found),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		InviteID:       inviteID,
		HostKey:        hostKey,
		HostDinerID:    hostDinerID,
		CandidateCount: len(found),
	})
}

// Get handles GET /sessions/{invite}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sessionView(sess, h.catalog))
}

// Join handles POST /sessions/{invite}/diners
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.JoinSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	dinerID := req.DinerID
	if dinerID == "" {
		dinerID = uuid.NewString()
	}
	mode := party.AttendanceMode(req.Mode)
	if mode == "" {
		mode = party.ModeRemote
	}

	added, err := sess.AddDiner(dinerID, mode)
	if err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	token, err := auth.GenerateDinerToken()
	if err != nil {
		slog.Error("failed to generate diner token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	if added {
		if err := h.store.Save(sess); err != nil {
			slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
			return
		}
	}

	_, err = h.db.Exec(`
		INSERT INTO diner_token (invite_id, diner_id, token, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (invite_id, diner_id) DO UPDATE SET token = EXCLUDED.token
	`, sess.InviteID, dinerID, token, time.Now())
	if err != nil {
		slog.Error("failed to insert diner token", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Error("failed to resolve device", "error", err)
	} else if err := LinkDeviceToSession(h.db, deviceID, sess.InviteID, models.RoleDiner, &dinerID); err != nil {
		slog.Error("failed to link device", "invite_id", sess.InviteID, "error", err)
	}

	slog.Info("diner joined", "invite_id", sess.InviteID, "diner", dinerID, "rejoined", !added)

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	middleware.JSONResponse(w, status, models.JoinSessionResponse{
		DinerID:    dinerID,
		DinerToken: token,
		Rejoined:   !added,
	})
}

// UpdateDiner handles PATCH /sessions/{invite}/diners/{dinerID}
func (h *SessionHandler) UpdateDiner(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	dinerID := r.PathValue("dinerID")

	var req models.UpdateDinerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Mode == nil && req.BrowseOnly == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Mode != nil {
		if err := sess.SetMode(dinerID, party.AttendanceMode(*req.Mode)); err != nil {
			middleware.ErrorFrom(w, err)
			return
		}
	}
	if req.BrowseOnly != nil {
		if err := sess.SetBrowseOnly(dinerID, *req.BrowseOnly); err != nil {
			middleware.ErrorFrom(w, err)
			return
		}
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update diner")
		return
	}

	slog.Info("diner updated", "invite_id", sess.InviteID, "diner", dinerID)

	middleware.JSONResponse(w, http.StatusOK, sessionView(sess, h.catalog))
}

// RemoveDiner handles DELETE /sessions/{invite}/diners/{dinerID}
// Requires the host key.
func (h *SessionHandler) RemoveDiner(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if !h.requireHostKey(w, r, sess.InviteID) {
		return
	}

	dinerID := r.PathValue("dinerID")
	if err := sess.RemoveDiner(dinerID); err != nil {
		middleware.ErrorFrom(w, err)
		return
	}

	if err := h.store.Save(sess); err != nil {
		slog.Error("failed to save session", "invite_id", sess.InviteID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove diner")
		return
	}

	slog.Info("diner removed", "invite_id", sess.InviteID, "diner", dinerID)

	middleware.JSONResponse(w, http.StatusOK, sessionView(sess, h.catalog))
}

// loadSession pulls the session named by the {invite} path segment,
// writing the error response itself when the lookup fails.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request) (*party.Session, bool) {
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

func (h *SessionHandler) requireHostKey(w http.ResponseWriter, r *http.Request, inviteID string) bool {
	key := r.Header.Get("X-Host-Key")
	if err := auth.ValidateHostKey(inviteID, key, h.cfg.HostKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid host key")
		return false
	}
	return true
}

// sessionView projects a session into its wire shape.
func sessionView(sess *party.Session, cat candidates.Catalog) models.SessionResponse {
	roster := make([]models.RosterEntry, len(sess.Roster))
	for i, d := range sess.Roster {
		roster[i] = models.RosterEntry{
			DinerID:    d.DinerID,
			Mode:       string(d.Mode),
			BrowseOnly: d.BrowseOnly,
		}
	}

	resp := models.SessionResponse{
		InviteID:     sess.InviteID,
		HostDinerID:  sess.HostDinerID,
		ScheduledAt:  sess.ScheduledAt,
		Filters:      sess.Filters,
		Roster:       roster,
		Phase:        string(sess.Phase),
		Cursor:       sess.Cursor,
		Total:        len(sess.Candidates),
		SingleDevice: sess.SingleDevice,
		CreatedAt:    sess.CreatedAt,
	}
	if sess.ScheduledAt != nil {
		resp.ScheduledIn = humanize.Time(*sess.ScheduledAt)
	}
	if sess.Match != nil {
		resp.Match = matchView(sess.Match, cat)
	}
	return resp
}

func matchView(m *party.Match, cat candidates.Catalog) *models.MatchResponse {
	resp := &models.MatchResponse{
		CandidateID: m.CandidateID,
		MatchedAt:   m.MatchedAt,
		MatchedAgo:  humanize.Time(m.MatchedAt),
	}
	if cat != nil {
		if found, err := cat.ByIDs([]string{m.CandidateID}); err == nil && len(found) == 1 {
			resp.Candidate = &found[0]
		}
	}
	return resp
}
