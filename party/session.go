// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package party

import "time"

// AttendanceMode says how a diner participates in the session.
type AttendanceMode string

const (
	// ModeRemote diners vote independently, each on their own device
	// (or, in single-device sessions, in first-unvoted roster order).
	ModeRemote AttendanceMode = "remote"
	// ModeInPerson diners share one phone and vote in a strict rotation,
	// one batch of candidates at a time.
	ModeInPerson AttendanceMode = "in_person"
)

// Vote is a stored ballot value. Absence of a ledger entry means the diner
// has not voted; VoteUnknown is only ever returned from lookups, never stored.
type Vote string

const (
	VoteUnknown Vote = "unknown"
	VoteReject  Vote = "reject"
	VoteAccept  Vote = "accept"
)

// Phase is the turn-sequencing state of the candidate walk.
type Phase string

const (
	PhaseAwaitingVote   Phase = "awaiting_vote"
	PhaseHandoffPending Phase = "handoff_pending"
	PhaseRoundComplete  Phase = "round_complete"
	PhaseExhausted      Phase = "exhausted"
)

// DefaultBatchSize is how many candidates an in-person diner reviews before
// passing the phone.
const DefaultBatchSize = 10

// DinerSelection is one roster entry: who is dining and how they vote.
// BrowseOnly marks a solo participant who is just browsing; they walk the
// candidate sequence normally but never count toward a unanimous match.
type DinerSelection struct {
	DinerID    string         `json:"diner_id"`
	Mode       AttendanceMode `json:"mode"`
	BrowseOnly bool           `json:"browse_only,omitempty"`
}

// Filters is the search criteria snapshot captured when the session is
// created. The candidate sequence is derived from it once; changing filters
// means starting a new session.
type Filters struct {
	Cuisines       []string `json:"cuisines,omitempty"`
	MaxPriceTier   int      `json:"max_price_tier,omitempty"`
	MaxDistanceKm  float64  `json:"max_distance_km,omitempty"`
	MinRating      float64  `json:"min_rating,omitempty"`
	FamilyFriendly bool     `json:"family_friendly,omitempty"`
}

// Match is the terminal result of a session. Set exactly once.
type Match struct {
	CandidateID string    `json:"candidate_id"`
	MatchedAt   time.Time `json:"matched_at"`
}

// Session is the aggregate root for one dining party. The whole struct is
// JSON-serializable so a persistence adapter can store it as a single
// payload keyed by InviteID.
//
// Candidates is the ordered, deduplicated candidate-id snapshot taken at
// creation. Cursor indexes the next candidate not yet resolved; RoundStart
// marks where the current in-person round began so every in-person diner
// reviews the identical batch window.
type Session struct {
	InviteID    string     `json:"invite_id"`
	HostDinerID string     `json:"host_diner_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Filters     Filters    `json:"filters"`

	Candidates []string                   `json:"candidates"`
	Roster     []DinerSelection           `json:"roster"`
	Ledger     map[string]map[string]Vote `json:"ledger"`

	Cursor         int   `json:"cursor"`
	RoundStart     int   `json:"round_start"`
	ActiveInPerson int   `json:"active_in_person"`
	Phase          Phase `json:"phase"`
	BatchSize      int   `json:"batch_size"`

	// SingleDevice means one shared UI stands in for every remote diner:
	// the active voter is resolved by a roster scan instead of a
	// per-connection identity. A multi-device backend turns this off and
	// supplies the voter with each ballot.
	SingleDevice bool `json:"single_device"`

	Elimination *Elimination `json:"elimination,omitempty"`
	Match       *Match       `json:"match,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a fresh session around a candidate-id snapshot.
// An empty snapshot starts the session already exhausted.
func NewSession(inviteID, hostDinerID string, filters Filters, candidateIDs []string, batchSize int) *Session {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	phase := PhaseAwaitingVote
	if len(candidateIDs) == 0 {
		phase = PhaseExhausted
	}

	now := time.Now()
	return &Session{
		InviteID:     inviteID,
		HostDinerID:  hostDinerID,
		Filters:      filters,
		Candidates:   append([]string{}, candidateIDs...),
		Roster:       []DinerSelection{},
		Ledger:       map[string]map[string]Vote{},
		Phase:        phase,
		BatchSize:    batchSize,
		SingleDevice: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Matched reports whether the session has reached its terminal state.
func (s *Session) Matched() bool {
	return s.Match != nil
}

// VotingStarted reports whether any ballot has been cast or the cursor has
// moved. Attendance modes are frozen from this point on.
func (s *Session) VotingStarted() bool {
	return s.Cursor > 0 || len(s.Ledger) > 0
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

func (s *Session) rosterIndex(dinerID string) int {
	for i, d := range s.Roster {
		if d.DinerID == dinerID {
			return i
		}
	}
	return -1
}

// Diner returns the roster entry for dinerID.
func (s *Session) Diner(dinerID string) (DinerSelection, bool) {
	if i := s.rosterIndex(dinerID); i >= 0 {
		return s.Roster[i], true
	}
	return DinerSelection{}, false
}

// AddDiner appends a diner to the roster. Adding a diner who is already
// present is a no-op; the bool reports whether the roster changed.
func (s *Session) AddDiner(dinerID string, mode AttendanceMode) (bool, error) {
	if s.Matched() {
		return false, ErrAlreadyMatched
	}
	if mode != ModeRemote && mode != ModeInPerson {
		return false, ErrInvalidMode
	}
	if s.rosterIndex(dinerID) >= 0 {
		return false, nil
	}

	s.Roster = append(s.Roster, DinerSelection{DinerID: dinerID, Mode: mode})
	s.touch()
	return true, nil
}

// SetBrowseOnly flags or unflags a diner as browse-only.
func (s *Session) SetBrowseOnly(dinerID string, browseOnly bool) error {
	i := s.rosterIndex(dinerID)
	if i < 0 {
		return ErrDinerNotFound
	}
	s.Roster[i].BrowseOnly = browseOnly
	s.touch()
	return nil
}

// SetMode changes a diner's attendance mode. Only allowed before voting
// starts; mid-session mode changes are rejected.
func (s *Session) SetMode(dinerID string, mode AttendanceMode) error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if mode != ModeRemote && mode != ModeInPerson {
		return ErrInvalidMode
	}
	if s.VotingStarted() {
		return ErrVotingStarted
	}

	i := s.rosterIndex(dinerID)
	if i < 0 {
		return ErrDinerNotFound
	}
	s.Roster[i].Mode = mode
	s.touch()
	return nil
}

// RemoveDiner drops a diner from the roster. Their ledger entries are
// retained: consensus is always recomputed against the current roster, so a
// removed diner's rejects stop counting without rewriting history. If the
// diner was part of the in-person rotation the rotation is rebuilt over the
// remaining in-person diners.
func (s *Session) RemoveDiner(dinerID string) error {
	if s.Matched() {
		return ErrAlreadyMatched
	}

	i := s.rosterIndex(dinerID)
	if i < 0 {
		return ErrDinerNotFound
	}

	removedRotation := -1
	for n, d := range s.inPerson() {
		if d.DinerID == dinerID {
			removedRotation = n
			break
		}
	}

	s.Roster = append(s.Roster[:i], s.Roster[i+1:]...)
	s.adjustRotation(removedRotation)
	s.touch()
	return nil
}

// RecordVote writes or overwrites the ledger cell for (candidateID, dinerID).
// The diner must be on the roster; the candidate is not validated against the
// cursor, since ordering is the sequencing engine's job. There is no way to
// retract a vote back to unknown, only to overwrite it.
func (s *Session) RecordVote(dinerID, candidateID string, v Vote) error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if v != VoteAccept && v != VoteReject {
		return ErrInvalidVote
	}
	if s.rosterIndex(dinerID) < 0 {
		return ErrDinerNotFound
	}

	cell, ok := s.Ledger[candidateID]
	if !ok {
		cell = map[string]Vote{}
		s.Ledger[candidateID] = cell
	}
	cell[dinerID] = v
	s.touch()
	return nil
}

// GetVote returns the stored vote for (dinerID, candidateID), or VoteUnknown
// if the diner has not voted on that candidate.
func (s *Session) GetVote(dinerID, candidateID string) Vote {
	if v, ok := s.Ledger[candidateID][dinerID]; ok {
		return v
	}
	return VoteUnknown
}

// VotesFor returns the ballots cast on a candidate, keyed by diner id. Only
// diners who actually voted appear; the map is a copy.
func (s *Session) VotesFor(candidateID string) map[string]Vote {
	out := make(map[string]Vote, len(s.Ledger[candidateID]))
	for dinerID, v := range s.Ledger[candidateID] {
		out[dinerID] = v
	}
	return out
}
