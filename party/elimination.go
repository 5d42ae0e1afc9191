// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package party

import "time"

// Elimination is the round-robin veto tiebreak: eliminators take turns
// striking one candidate until a single survivor remains, which resolves the
// session automatically. Both lists are frozen snapshots taken when
// elimination starts; later roster or shortlist changes never bring a struck
// candidate back.
type Elimination struct {
	Remaining   []string  `json:"remaining"`
	Eliminators []string  `json:"eliminators"`
	Turn        int       `json:"turn"`
	StartedAt   time.Time `json:"started_at"`
}

// ActiveEliminator returns whose turn it is to strike a candidate.
func (e *Elimination) ActiveEliminator() string {
	return e.Eliminators[e.Turn%len(e.Eliminators)]
}

// StartElimination freezes the shortlist and eliminator order and begins the
// veto rounds. A one-entry shortlist resolves immediately.
func (s *Session) StartElimination(shortlist, eliminators []string) error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	if s.Elimination != nil {
		return ErrEliminationStarted
	}
	if len(shortlist) == 0 {
		return ErrEmptyShortlist
	}
	if len(eliminators) == 0 {
		return ErrNoEliminators
	}

	s.Elimination = &Elimination{
		Remaining:   append([]string{}, shortlist...),
		Eliminators: append([]string{}, eliminators...),
		StartedAt:   time.Now(),
	}
	s.touch()

	if len(shortlist) == 1 {
		return s.Resolve(shortlist[0])
	}
	return nil
}

// Eliminate strikes one candidate on behalf of the active eliminator. When
// exactly one candidate is left standing it becomes the match.
func (s *Session) Eliminate(candidateID string) error {
	if s.Matched() {
		return ErrAlreadyMatched
	}
	e := s.Elimination
	if e == nil {
		return ErrNoElimination
	}

	idx := -1
	for i, id := range e.Remaining {
		if id == candidateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotInShortlist
	}

	e.Remaining = append(e.Remaining[:idx], e.Remaining[idx+1:]...)
	e.Turn++
	s.touch()

	if len(e.Remaining) == 1 {
		return s.Resolve(e.Remaining[0])
	}
	return nil
}
