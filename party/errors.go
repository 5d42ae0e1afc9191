// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package party

import "errors"

var (
	ErrDinerNotFound  = errors.New("diner is not on the session roster")
	ErrInvalidMode    = errors.New("attendance mode must be remote or in_person")
	ErrInvalidVote    = errors.New("vote must be accept or reject")
	ErrVotingStarted  = errors.New("attendance modes are frozen once voting has started")
	ErrAlreadyMatched = errors.New("session already has a match")
	ErrEmptyRoster    = errors.New("session has no diners")

	ErrHandoffPending   = errors.New("handoff pending: next diner must acknowledge before voting")
	ErrNoHandoffPending = errors.New("no handoff is pending")
	ErrRoundComplete    = errors.New("round complete: continue a new round or finish the session")
	ErrNotRoundComplete = errors.New("round is not complete")
	ErrNotActiveVoter   = errors.New("diner is not the active voter")
	ErrExhausted        = errors.New("candidate sequence is exhausted")
	ErrNotExhausted     = errors.New("candidate sequence is not exhausted")

	ErrEmptyPick          = errors.New("cannot pick from an empty candidate list")
	ErrEliminationStarted = errors.New("elimination has already started")
	ErrNoElimination      = errors.New("no elimination in progress")
	ErrEmptyShortlist     = errors.New("shortlist is empty")
	ErrNoEliminators      = errors.New("eliminator list is empty")
	ErrNotInShortlist     = errors.New("candidate is not in the elimination shortlist")
)
