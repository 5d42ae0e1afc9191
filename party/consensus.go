// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package party

import (
	"math/rand/v2"
	"time"
)

// countedDiners is the roster minus browse-only participants; these are the
// diners whose ballots decide a match.
func (s *Session) countedDiners() []DinerSelection {
	var out []DinerSelection
	for _, d := range s.Roster {
		if !d.BrowseOnly {
			out = append(out, d)
		}
	}
	return out
}

// Unanimous reports whether every counted roster diner has an accept on the
// candidate. Always recomputed against the current roster, never cached:
// roster membership can change and consensus must follow it. An empty
// roster is never unanimous.
func (s *Session) Unanimous(candidateID string) bool {
	counted := s.countedDiners()
	if len(counted) == 0 {
		return false
	}

	votes := s.Ledger[candidateID]
	for _, d := range counted {
		if votes[d.DinerID] != VoteAccept {
			return false
		}
	}
	return true
}

// MaybeShortlist returns every candidate with at least one accept from any
// diner, in candidate-sequence order.
func (s *Session) MaybeShortlist() []string {
	var out []string
	for _, candidateID := range s.Candidates {
		for _, v := range s.Ledger[candidateID] {
			if v == VoteAccept {
				out = append(out, candidateID)
				break
			}
		}
	}
	return out
}

// UnanimousShortlist returns every candidate the whole counted roster has
// accepted, in candidate-sequence order. Always a subset of MaybeShortlist.
func (s *Session) UnanimousShortlist() []string {
	var out []string
	for _, candidateID := range s.Candidates {
		if s.Unanimous(candidateID) {
			out = append(out, candidateID)
		}
	}
	return out
}

// Resolve sets the terminal match. Exactly once per session: resolving an
// already-matched session is a sequencing bug, not a user condition.
func (s *Session) Resolve(candidateID string) error {
	if s.Match != nil {
		return ErrAlreadyMatched
	}
	s.Match = &Match{CandidateID: candidateID, MatchedAt: time.Now()}
	s.touch()
	return nil
}

// RandomPick selects one candidate uniformly at random, for the
// "let fate decide" tiebreak. An empty list is refused, never silently
// resolved to nothing.
func RandomPick(candidateIDs []string) (string, error) {
	if len(candidateIDs) == 0 {
		return "", ErrEmptyPick
	}
	return candidateIDs[rand.IntN(len(candidateIDs))], nil
}
