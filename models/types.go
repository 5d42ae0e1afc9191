package models

import (
	"time"

	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/party"
)

// Device roles
const (
	RoleHost  = "host"
	RoleDiner = "diner"
)

// Device platforms
const (
	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Request types

type CreateSessionRequest struct {
	HostDinerID  string                         `json:"host_diner_id"`
	HostMode     string                         `json:"host_mode,omitempty"`
	ScheduledAt  *time.Time                     `json:"scheduled_at,omitempty"`
	Filters      party.Filters                  `json:"filters"`
	Profiles     []candidates.PreferenceProfile `json:"profiles,omitempty"`
	BatchSize    int                            `json:"batch_size,omitempty"`
	SingleDevice *bool                          `json:"single_device,omitempty"`
}

type JoinSessionRequest struct {
	DinerID string `json:"diner_id"`
	Mode    string `json:"mode"`
}

type UpdateDinerRequest struct {
	Mode       *string `json:"mode,omitempty"`
	BrowseOnly *bool   `json:"browse_only,omitempty"`
}

type CastVoteRequest struct {
	DinerID     string `json:"diner_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Vote        string `json:"vote"`
}

type ResolveRequest struct {
	CandidateID string `json:"candidate_id"`
}

type StartEliminationRequest struct {
	// "any" (default) or "unanimous" shortlist, or explicit candidate ids.
	Shortlist    string   `json:"shortlist,omitempty"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
	Eliminators  []string `json:"eliminators,omitempty"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type CreateSessionResponse struct {
	InviteID       string `json:"invite_id"`
	HostKey        string `json:"host_key"`
	HostDinerID    string `json:"host_diner_id"`
	CandidateCount int    `json:"candidate_count"`
}

type JoinSessionResponse struct {
	DinerID    string `json:"diner_id"`
	DinerToken string `json:"diner_token"`
	Rejoined   bool   `json:"rejoined"`
}

type CastVoteResponse struct {
	CandidateID string `json:"candidate_id"`
	DinerID     string `json:"diner_id"`
	Vote        string `json:"vote"`
	Matched     bool   `json:"matched"`
	Phase       string `json:"phase"`
	NextVoter   string `json:"next_voter,omitempty"`
}

type CurrentResponse struct {
	Phase       string                `json:"phase"`
	CandidateID string                `json:"candidate_id,omitempty"`
	Candidate   *candidates.Candidate `json:"candidate,omitempty"`
	ActiveVoter string                `json:"active_voter,omitempty"`
	Cursor      int                   `json:"cursor"`
	Total       int                   `json:"total"`
	BatchCast   int                   `json:"batch_cast"`
	BatchSize   int                   `json:"batch_size"`
}

type ShortlistResponse struct {
	CandidateIDs []string               `json:"candidate_ids"`
	Candidates   []candidates.Candidate `json:"candidates,omitempty"`
	Unanimous    []string               `json:"unanimous"`
}

type MatchResponse struct {
	CandidateID string                `json:"candidate_id"`
	Candidate   *candidates.Candidate `json:"candidate,omitempty"`
	MatchedAt   time.Time             `json:"matched_at"`
	MatchedAgo  string                `json:"matched_ago,omitempty"`
}

type EliminationResponse struct {
	Remaining        []string `json:"remaining"`
	Eliminators      []string `json:"eliminators"`
	ActiveEliminator string   `json:"active_eliminator,omitempty"`
	Turn             int      `json:"turn"`
	Resolved         bool     `json:"resolved"`
	MatchedCandidate string   `json:"matched_candidate,omitempty"`
}

type RosterEntry struct {
	DinerID    string `json:"diner_id"`
	Mode       string `json:"mode"`
	BrowseOnly bool   `json:"browse_only"`
}

type SessionResponse struct {
	InviteID     string         `json:"invite_id"`
	HostDinerID  string         `json:"host_diner_id"`
	ScheduledAt  *time.Time     `json:"scheduled_at,omitempty"`
	ScheduledIn  string         `json:"scheduled_in,omitempty"`
	Filters      party.Filters  `json:"filters"`
	Roster       []RosterEntry  `json:"roster"`
	Phase        string         `json:"phase"`
	Cursor       int            `json:"cursor"`
	Total        int            `json:"total"`
	SingleDevice bool           `json:"single_device"`
	Match        *MatchResponse `json:"match,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type CandidatePreview struct {
	candidates.Candidate
	PriceLabel    string `json:"price_label"`
	DistanceLabel string `json:"distance_label"`
}

type PreviewResponse struct {
	Candidates []CandidatePreview `json:"candidates"`
}

// Device responses

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type DeviceInfo struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	LastSeen   string    `json:"last_seen,omitempty"`
}

type DeviceSessionSummary struct {
	InviteID   string    `json:"invite_id"`
	Phase      string    `json:"phase"`
	Role       string    `json:"role"`
	DinerID    *string   `json:"diner_id,omitempty"`
	LinkedAt   time.Time `json:"linked_at"`
	DinerCount int       `json:"diner_count"`
}

type GetMySessionsResponse struct {
	Sessions []DeviceSessionSummary `json:"sessions"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
