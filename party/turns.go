// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package party

// Outcome describes what one ballot did to the session.
type Outcome struct {
	CandidateID string `json:"candidate_id"`
	DinerID     string `json:"diner_id"`
	Vote        Vote   `json:"vote"`
	Matched     bool   `json:"matched"`
	Phase       Phase  `json:"phase"`
}

func (s *Session) inPerson() []DinerSelection {
	var out []DinerSelection
	for _, d := range s.Roster {
		if d.Mode == ModeInPerson {
			out = append(out, d)
		}
	}
	return out
}

// usesRotation reports whether the in-person turn machinery is active.
// A solo diner never rotates, whatever their mode says.
func (s *Session) usesRotation() bool {
	return len(s.Roster) > 1 && len(s.inPerson()) > 0
}

// CurrentCandidate returns the candidate the cursor points at.
func (s *Session) CurrentCandidate() (string, error) {
	if s.Cursor >= len(s.Candidates) {
		return "", ErrExhausted
	}
	return s.Candidates[s.Cursor], nil
}

// ActiveVoter returns the diner whose ballot the next swipe records. During
// a pending handoff this is the diner the phone should be passed to.
//
// Resolution order: the current in-person diner when the rotation is active;
// the sole diner in a one-person session; otherwise the first roster diner
// who has not voted on the current candidate (the single shared UI standing
// in for whichever remote diner hasn't acted yet).
func (s *Session) ActiveVoter() (string, error) {
	if s.Matched() {
		return "", ErrAlreadyMatched
	}
	if len(s.Roster) == 0 {
		return "", ErrEmptyRoster
	}
	switch s.Phase {
	case PhaseRoundComplete:
		return "", ErrRoundComplete
	case PhaseExhausted:
		return "", ErrExhausted
	}

	if s.usesRotation() {
		ip := s.inPerson()
		idx := s.ActiveInPerson
		if idx >= len(ip) {
			idx = 0
		}
		return ip[idx].DinerID, nil
	}

	if len(s.Roster) == 1 {
		return s.Roster[0].DinerID, nil
	}

	current, err := s.CurrentCandidate()
	if err != nil {
		return "", err
	}
	for _, d := range s.Roster {
		if _, voted := s.Ledger[current][d.DinerID]; !voted {
			return d.DinerID, nil
		}
	}
	// Everyone has voted here already; the next ballot revises the first
	// diner's vote.
	return s.Roster[0].DinerID, nil
}

// CastBallot records a vote on the current candidate for the active voter
// and advances the walk. An empty dinerID means "whoever's turn it is".
// If the ballot completes a unanimous accept, the session resolves
// immediately and the cursor does not move.
func (s *Session) CastBallot(dinerID string, v Vote) (Outcome, error) {
	if s.Matched() {
		return Outcome{}, ErrAlreadyMatched
	}
	switch s.Phase {
	case PhaseHandoffPending:
		return Outcome{}, ErrHandoffPending
	case PhaseRoundComplete:
		return Outcome{}, ErrRoundComplete
	case PhaseExhausted:
		return Outcome{}, ErrExhausted
	}

	candidate, err := s.CurrentCandidate()
	if err != nil {
		return Outcome{}, err
	}

	active, err := s.ActiveVoter()
	if err != nil {
		return Outcome{}, err
	}
	if dinerID == "" {
		dinerID = active
	} else if dinerID != active && (s.usesRotation() || s.SingleDevice) {
		return Outcome{}, ErrNotActiveVoter
	}

	if err := s.RecordVote(dinerID, candidate, v); err != nil {
		return Outcome{}, err
	}

	if s.Unanimous(candidate) {
		if err := s.Resolve(candidate); err != nil {
			return Outcome{}, err
		}
		return Outcome{CandidateID: candidate, DinerID: dinerID, Vote: v, Matched: true, Phase: s.Phase}, nil
	}

	s.advance()
	return Outcome{CandidateID: candidate, DinerID: dinerID, Vote: v, Matched: false, Phase: s.Phase}, nil
}

// advance moves the cursor after a non-matching ballot and works out whose
// turn comes next.
func (s *Session) advance() {
	s.Cursor++

	if !s.usesRotation() {
		if s.Cursor >= len(s.Candidates) {
			s.Phase = PhaseExhausted
		}
		return
	}

	// A batch ends when the active diner has cast BatchSize votes since the
	// round started, or the sequence ran out mid-batch (a truncated batch
	// still rotates so every diner sees the identical window).
	batchDone := s.Cursor-s.RoundStart >= s.BatchSize || s.Cursor >= len(s.Candidates)
	if !batchDone {
		return
	}

	if s.ActiveInPerson >= len(s.inPerson())-1 {
		if s.Cursor >= len(s.Candidates) {
			s.Phase = PhaseExhausted
		} else {
			s.Phase = PhaseRoundComplete
		}
		return
	}

	s.ActiveInPerson++
	s.Cursor = s.RoundStart
	s.Phase = PhaseHandoffPending
}

// AcknowledgeHandoff confirms the phone has been passed to the next
// in-person diner. Votes are rejected until this is called.
func (s *Session) AcknowledgeHandoff() error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if s.Phase != PhaseHandoffPending {
		return ErrNoHandoffPending
	}
	s.Phase = PhaseAwaitingVote
	s.touch()
	return nil
}

// ContinueRound starts a fresh in-person round over the next batch window:
// the round-start index catches up to the cursor and the rotation returns to
// the first in-person diner.
func (s *Session) ContinueRound() error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if s.Phase != PhaseRoundComplete {
		return ErrNotRoundComplete
	}

	s.RoundStart = s.Cursor
	s.ActiveInPerson = 0
	if len(s.inPerson()) > 1 {
		s.Phase = PhaseHandoffPending
	} else {
		s.Phase = PhaseAwaitingVote
	}
	s.touch()
	return nil
}

// Restart rewinds an exhausted walk to the top of the candidate sequence so
// diners who haven't voted yet can fill in their ballots.
func (s *Session) Restart() error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if s.Phase != PhaseExhausted {
		return ErrNotExhausted
	}
	if len(s.Candidates) == 0 {
		return ErrExhausted
	}

	s.Cursor = 0
	s.RoundStart = 0
	s.ActiveInPerson = 0
	if len(s.inPerson()) > 1 && s.usesRotation() {
		s.Phase = PhaseHandoffPending
	} else {
		s.Phase = PhaseAwaitingVote
	}
	s.touch()
	return nil
}

// BatchProgress reports how far the active in-person diner is through their
// batch window: votes cast so far and the window size. The window can be
// shorter than BatchSize when the sequence runs out.
func (s *Session) BatchProgress() (cast, window int) {
	window = s.BatchSize
	if remaining := len(s.Candidates) - s.RoundStart; remaining < window {
		window = remaining
	}
	if window < 0 {
		window = 0
	}
	cast = s.Cursor - s.RoundStart
	if cast > window {
		cast = window
	}
	return cast, window
}

// adjustRotation rebuilds the in-person rotation after a roster removal.
// removed is the removed diner's index within the old rotation, or -1 if
// they weren't part of it.
//
// Policy (upstream leaves this undefined): diners before the active one
// shift the index down; removing the active diner hands their turn to the
// successor (wrapping to the rotation head) behind a handoff gate, since the
// phone has to move regardless.
func (s *Session) adjustRotation(removed int) {
	if removed < 0 {
		return
	}

	ip := s.inPerson()
	if len(ip) == 0 {
		s.ActiveInPerson = 0
		if s.Phase == PhaseHandoffPending {
			s.Phase = PhaseAwaitingVote
		}
		return
	}

	switch {
	case removed < s.ActiveInPerson:
		s.ActiveInPerson--
	case removed == s.ActiveInPerson:
		if s.ActiveInPerson >= len(ip) {
			s.ActiveInPerson = 0
		}
		if s.Phase == PhaseAwaitingVote {
			s.Phase = PhaseHandoffPending
		}
	}
}
