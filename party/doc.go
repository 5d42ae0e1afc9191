// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package party implements the dining-party session state machine: who is
voting, whose turn it is, what everyone swiped, and when the group has a
match.

# Session

Session is the aggregate root, fully JSON-serializable so the store layer
can persist it as one payload per invite id:

	s := party.NewSession(inviteID, hostID, filters, candidateIDs, batchSize)
	s.AddDiner("ana", party.ModeRemote)
	s.AddDiner("ben", party.ModeInPerson)

The candidate-id snapshot is taken once at creation; the session only ever
indexes into it, so every participant walks the same stable sequence.

# Voting

Ballots flow through the turn engine:

	out, err := s.CastBallot("", party.VoteAccept) // "" = active voter
	if out.Matched {
		// s.Match is set, session is terminal
	}

Votes are accept/reject; "unknown" is the absence of a ledger entry, never a
stored value, and there is no retraction. A diner can revise a vote by
overwriting it.

# Turn sequencing

Phase tracks the walk: awaiting_vote, handoff_pending (in-person diner must
acknowledge receiving the phone), round_complete (every in-person diner
finished their batch), exhausted (no candidates left). In-person diners vote
in roster rotation, one batch of BatchSize candidates each; the cursor
rewinds to the round start on every handoff so each diner reviews the
identical window.

# Consensus and resolution

Unanimity is recomputed from the live roster on every check, so removing a
diner can pull a candidate back into contention. Terminal resolution happens
exactly once, via a unanimous ballot, an explicit Resolve, a RandomPick over
a shortlist, or the round-robin elimination tiebreak.

The package has no I/O and no locking; callers apply events one at a time
and persist the result (see the store package).
*/
package party
