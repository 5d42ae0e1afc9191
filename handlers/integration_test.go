package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/store"
	"github.com/kylemcd/tablepick/testutil"
)

// TestFullSessionWorkflow tests the complete end-to-end workflow:
// 1. Host creates a session from the seeded catalog
// 2. A remote diner and a second in-person diner join
// 3. The phone rotates through the in-person batch
// 4. The remote diner fills in a ballot out of sequence
// 5. The last accept completes a unanimous match
// 6. The terminal session refuses further activity
func TestFullSessionWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	cat := candidates.NewSQLCatalog(conn)
	sessionHandler := NewSessionHandler(conn, cfg, st, cat)
	votingHandler := NewVotingHandler(conn, cfg, st, cat)

	// Step 1: Host creates the session
	req := testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{
		HostDinerID: "host",
		HostMode:    "in_person",
	}, map[string]string{"X-Device-UUID": "uuid-host-phone"})
	w := httptest.NewRecorder()
	sessionHandler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.CreateSessionResponse
	testutil.AssertJSON(t, w, &created)
	if created.CandidateCount != 4 {
		t.Fatalf("Step 1 - Expected 4 candidates, got %d", created.CandidateCount)
	}
	inviteID := created.InviteID

	// Step 2: ana joins remotely, ben joins at the table
	for _, join := range []models.JoinSessionRequest{
		{DinerID: "ana", Mode: "remote"},
		{DinerID: "ben", Mode: "in_person"},
	} {
		req = testutil.MakeRequest("POST", "/sessions/"+inviteID+"/diners", join, nil)
		req.SetPathValue("invite", inviteID)
		w = httptest.NewRecorder()
		sessionHandler.Join(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Join %s failed: %d - %s", join.DinerID, w.Code, w.Body.String())
		}
	}

	// Step 3: host swipes a full batch on the shared phone
	var cast models.CastVoteResponse
	for _, vote := range []string{"reject", "accept", "accept"} {
		cast = castVote(t, votingHandler, inviteID, models.CastVoteRequest{Vote: vote}, http.StatusOK)
		if cast.Matched {
			t.Fatalf("Step 3 - Premature match on %s", cast.CandidateID)
		}
	}
	if cast.Phase != "handoff_pending" || cast.NextVoter != "ben" {
		t.Fatalf("Step 3 - Expected a handoff to ben, got phase=%q voter=%q", cast.Phase, cast.NextVoter)
	}

	// Step 4: ben takes the phone and re-walks the same window
	req = testutil.MakeRequest("POST", "/sessions/"+inviteID+"/handoff", nil, nil)
	req.SetPathValue("invite", inviteID)
	w = httptest.NewRecorder()
	votingHandler.Handoff(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Handoff failed: %d - %s", w.Code, w.Body.String())
	}

	for _, vote := range []string{"reject", "accept", "accept"} {
		cast = castVote(t, votingHandler, inviteID, models.CastVoteRequest{Vote: vote}, http.StatusOK)
		if cast.Matched {
			t.Fatalf("Step 4 - Match before the remote diner voted, on %s", cast.CandidateID)
		}
	}
	if cast.Phase != "round_complete" {
		t.Fatalf("Step 4 - Expected round_complete, got %q", cast.Phase)
	}

	// Step 5: ana fills in r2 from her own device; everyone has now accepted it
	cast = castVote(t, votingHandler, inviteID,
		models.CastVoteRequest{DinerID: "ana", CandidateID: "r2", Vote: "accept"}, http.StatusOK)
	if !cast.Matched || cast.CandidateID != "r2" {
		t.Fatalf("Step 5 - Expected a match on r2, got %+v", cast)
	}

	// Step 6: the session shows the match and refuses more ballots
	req = testutil.MakeRequest("GET", "/sessions/"+inviteID, nil, nil)
	req.SetPathValue("invite", inviteID)
	w = httptest.NewRecorder()
	sessionHandler.Get(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Get session failed: %d", w.Code)
	}
	var view models.SessionResponse
	testutil.AssertJSON(t, w, &view)
	if view.Match == nil || view.Match.CandidateID != "r2" {
		t.Fatalf("Step 6 - Expected match on r2, got %+v", view.Match)
	}
	if view.Match.Candidate == nil || view.Match.Candidate.Name != "Taco Cart" {
		t.Fatalf("Step 6 - Expected the Taco Cart record, got %+v", view.Match.Candidate)
	}

	castVote(t, votingHandler, inviteID, models.CastVoteRequest{Vote: "accept"}, http.StatusConflict)

	// The creating device was linked as host along the way
	deviceHandler := NewDeviceHandler(conn, cfg)
	req = testutil.MakeRequest("GET", "/devices/my-sessions", nil,
		map[string]string{"X-Device-UUID": "uuid-host-phone"})
	w = httptest.NewRecorder()
	deviceHandler.GetMySessions(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Device sessions lookup failed: %d - %s", w.Code, w.Body.String())
	}
	var mine models.GetMySessionsResponse
	testutil.AssertJSON(t, w, &mine)
	if len(mine.Sessions) != 1 || mine.Sessions[0].Role != models.RoleHost {
		t.Fatalf("Expected one host-linked session, got %+v", mine.Sessions)
	}
	if mine.Sessions[0].Phase != "matched" {
		t.Errorf("Expected matched phase in the summary, got %q", mine.Sessions[0].Phase)
	}
}

// TestShortlistTiebreakWorkflow exercises the no-consensus endgame: an
// exhausted walk, a split shortlist, and the elimination tiebreak.
func TestShortlistTiebreakWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	cat := candidates.NewSQLCatalog(conn)
	votingHandler := NewVotingHandler(conn, cfg, st, cat)
	resultsHandler := NewResultsHandler(conn, cfg, st, cat)

	sess, hostKey := testutil.CreateTestSession(t, st, cfg, ids)
	inviteID := sess.InviteID
	testutil.JoinTestDiner(t, st, inviteID, "ana", "remote")

	// Host walks the whole deck; ana disagrees on everything she likes.
	// The first batch ends after three, so the round rolls over once.
	for _, vote := range []string{"accept", "reject", "accept"} {
		castVote(t, votingHandler, inviteID,
			models.CastVoteRequest{DinerID: "host", Vote: vote}, http.StatusOK)
	}
	req := testutil.MakeRequest("POST", "/sessions/"+inviteID+"/rounds", nil, nil)
	req.SetPathValue("invite", inviteID)
	w := httptest.NewRecorder()
	votingHandler.ContinueRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	castVote(t, votingHandler, inviteID,
		models.CastVoteRequest{DinerID: "host", Vote: "reject"}, http.StatusOK)
	for candidateID, vote := range map[string]string{
		"r1": "reject", "r2": "accept", "r3": "reject", "r4": "accept",
	} {
		castVote(t, votingHandler, inviteID,
			models.CastVoteRequest{DinerID: "ana", CandidateID: candidateID, Vote: vote}, http.StatusOK)
	}

	// No unanimity anywhere, but four maybes
	req = testutil.MakeRequest("GET", "/sessions/"+inviteID+"/shortlist", nil, nil)
	req.SetPathValue("invite", inviteID)
	w = httptest.NewRecorder()
	resultsHandler.Shortlist(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var shortlist models.ShortlistResponse
	testutil.AssertJSON(t, w, &shortlist)
	if len(shortlist.CandidateIDs) != 4 {
		t.Fatalf("Expected 4 maybes, got %v", shortlist.CandidateIDs)
	}
	if len(shortlist.Unanimous) != 0 {
		t.Fatalf("Expected no unanimous entries, got %v", shortlist.Unanimous)
	}

	// The host starts elimination over the maybes
	req = testutil.MakeRequest("POST", "/sessions/"+inviteID+"/elimination",
		models.StartEliminationRequest{Shortlist: "any"},
		map[string]string{"X-Host-Key": hostKey})
	req.SetPathValue("invite", inviteID)
	w = httptest.NewRecorder()
	resultsHandler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var elim models.EliminationResponse
	testutil.AssertJSON(t, w, &elim)
	if len(elim.Remaining) != 4 || elim.ActiveEliminator != "host" {
		t.Fatalf("Unexpected elimination start: %+v", elim)
	}

	// Alternate strikes down to a survivor
	for i, candidateID := range []string{"r3", "r1", "r4"} {
		req = testutil.MakeRequest("DELETE", "/sessions/"+inviteID+"/elimination/"+candidateID, nil, nil)
		req.SetPathValue("invite", inviteID)
		req.SetPathValue("candidateID", candidateID)
		w = httptest.NewRecorder()
		resultsHandler.Eliminate(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Strike %d on %s failed: %d - %s", i+1, candidateID, w.Code, w.Body.String())
		}
	}
	testutil.AssertJSON(t, w, &elim)
	if !elim.Resolved || elim.MatchedCandidate != "r2" {
		t.Fatalf("Expected r2 to survive, got %+v", elim)
	}
}
