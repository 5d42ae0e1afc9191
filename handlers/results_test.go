package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/models"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
	"github.com/kylemcd/tablepick/testutil"
)

// recordVotes writes ledger entries straight through the store
func recordVotes(t *testing.T, st store.Store, inviteID string, votes map[string]map[string]party.Vote) {
	t.Helper()

	sess, err := st.Load(inviteID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	for dinerID, byCandidate := range votes {
		for candidateID, v := range byCandidate {
			if err := sess.RecordVote(dinerID, candidateID, v); err != nil {
				t.Fatalf("Failed to record vote: %v", err)
			}
		}
	}
	if err := st.Save(sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
}

func TestShortlist(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, _ := testutil.CreateTestSession(t, st, cfg, ids)
	testutil.JoinTestDiner(t, st, sess.InviteID, "ana", party.ModeRemote)

	recordVotes(t, st, sess.InviteID, map[string]map[string]party.Vote{
		"host": {"r1": party.VoteAccept, "r2": party.VoteAccept, "r3": party.VoteReject},
		"ana":  {"r1": party.VoteReject, "r2": party.VoteAccept},
	})

	req := testutil.MakeRequest("GET", "/sessions/"+sess.InviteID+"/shortlist", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.Shortlist(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ShortlistResponse
	testutil.AssertJSON(t, w, &resp)

	// Anything with at least one accept, in candidate-sequence order
	if len(resp.CandidateIDs) != 2 || resp.CandidateIDs[0] != "r1" || resp.CandidateIDs[1] != "r2" {
		t.Errorf("Expected maybe-shortlist [r1 r2], got %v", resp.CandidateIDs)
	}
	if len(resp.Unanimous) != 1 || resp.Unanimous[0] != "r2" {
		t.Errorf("Expected unanimous shortlist [r2], got %v", resp.Unanimous)
	}
	if len(resp.Candidates) != 2 || resp.Candidates[0].Name != "Sushi Stop" {
		t.Errorf("Expected full candidate records for the shortlist, got %v", resp.Candidates)
	}
}

func TestResolve(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, hostKey := testutil.CreateTestSession(t, st, cfg, ids)

	// No host key, no resolution
	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match",
		models.ResolveRequest{CandidateID: "r2"}, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.Resolve(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	headers := map[string]string{"X-Host-Key": hostKey}

	// Missing candidate_id
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match",
		models.ResolveRequest{}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.Resolve(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match",
		models.ResolveRequest{CandidateID: "r2"}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.Resolve(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MatchResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CandidateID != "r2" {
		t.Errorf("Expected match on r2, got %q", resp.CandidateID)
	}
	if resp.Candidate == nil || resp.Candidate.Name != "Taco Cart" {
		t.Errorf("Expected the Taco Cart record, got %+v", resp.Candidate)
	}
	if resp.MatchedAgo == "" {
		t.Error("Expected a humanized matched-ago label")
	}

	// Resolution is exactly-once
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match",
		models.ResolveRequest{CandidateID: "r1"}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.Resolve(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestRandomPick(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, _ := testutil.CreateTestSession(t, st, cfg, ids)
	recordVotes(t, st, sess.InviteID, map[string]map[string]party.Vote{
		"host": {"r3": party.VoteAccept},
	})

	// A one-entry shortlist makes the uniform pick deterministic
	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match/random", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.RandomPick(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MatchResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CandidateID != "r3" {
		t.Errorf("Expected match on r3, got %q", resp.CandidateID)
	}
}

func TestRandomPickEmptyShortlist(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, _ := testutil.CreateTestSession(t, st, cfg, ids)

	// Nobody has accepted anything; fate has nothing to decide
	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/match/random", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.RandomPick(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestStartElimination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, hostKey := testutil.CreateTestSession(t, st, cfg, ids)
	testutil.JoinTestDiner(t, st, sess.InviteID, "ana", party.ModeRemote)
	testutil.JoinTestDiner(t, st, sess.InviteID, "cam", party.ModeRemote)

	// cam is just browsing and stays out of the veto order
	loaded, err := st.Load(sess.InviteID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if err := loaded.SetBrowseOnly("cam", true); err != nil {
		t.Fatalf("Failed to flag browse-only: %v", err)
	}
	if err := st.Save(loaded); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	recordVotes(t, st, sess.InviteID, map[string]map[string]party.Vote{
		"host": {"r1": party.VoteAccept, "r2": party.VoteAccept, "r3": party.VoteAccept},
		"ana":  {"r1": party.VoteAccept, "r2": party.VoteAccept},
	})

	// Host key required
	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{}, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	headers := map[string]string{"X-Host-Key": hostKey}

	// Unknown eliminator
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{Eliminators: []string{"host", "ghost"}}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)

	// Bad shortlist keyword
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{Shortlist: "best"}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Default shortlist is anything with an accept; default eliminators are
	// the counted roster in seating order
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.EliminationResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Remaining) != 3 {
		t.Errorf("Expected 3 entries remaining, got %v", resp.Remaining)
	}
	if len(resp.Eliminators) != 2 || resp.Eliminators[0] != "host" || resp.Eliminators[1] != "ana" {
		t.Errorf("Expected eliminators [host ana], got %v", resp.Eliminators)
	}
	if resp.ActiveEliminator != "host" {
		t.Errorf("Expected host to strike first, got %q", resp.ActiveEliminator)
	}
	if resp.Resolved {
		t.Error("A 3-entry shortlist must not auto-resolve")
	}

	// The snapshot is frozen; starting again is refused
	req = testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{}, headers)
	req.SetPathValue("invite", sess.InviteID)
	w = httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestStartEliminationSingleEntry(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, hostKey := testutil.CreateTestSession(t, st, cfg, ids)

	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{CandidateIDs: []string{"r4"}},
		map[string]string{"X-Host-Key": hostKey})
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.EliminationResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.Resolved || resp.MatchedCandidate != "r4" {
		t.Errorf("Expected immediate resolution on r4, got %+v", resp)
	}
}

func TestEliminate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, hostKey := testutil.CreateTestSession(t, st, cfg, ids)
	testutil.JoinTestDiner(t, st, sess.InviteID, "ana", party.ModeRemote)

	req := testutil.MakeRequest("POST", "/sessions/"+sess.InviteID+"/elimination",
		models.StartEliminationRequest{CandidateIDs: []string{"r1", "r2", "r3"}},
		map[string]string{"X-Host-Key": hostKey})
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.StartElimination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Not ana's turn yet
	req = testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r1?diner_id=ana", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r1")
	w = httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Striking something outside the frozen shortlist
	req = testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r4", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r4")
	w = httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Host strikes r1
	req = testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r1?diner_id=host", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r1")
	w = httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.EliminationResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Remaining) != 2 || resp.Turn != 1 {
		t.Errorf("Expected 2 remaining at turn 1, got %+v", resp)
	}
	if resp.ActiveEliminator != "ana" {
		t.Errorf("Expected the veto to pass to ana, got %q", resp.ActiveEliminator)
	}

	// Ana strikes r3, leaving a lone survivor
	req = testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r3?diner_id=ana", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r3")
	w = httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &resp)
	if !resp.Resolved || resp.MatchedCandidate != "r2" {
		t.Errorf("Expected the survivor r2 to become the match, got %+v", resp)
	}

	got, err := st.Load(sess.InviteID)
	if err != nil {
		t.Fatalf("Failed to reload session: %v", err)
	}
	if got.Match == nil || got.Match.CandidateID != "r2" {
		t.Errorf("Match not persisted: %+v", got.Match)
	}

	// Terminal session refuses further strikes
	req = testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r2", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r2")
	w = httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestEliminateWithoutElimination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, _ := testutil.CreateTestSession(t, st, cfg, ids)

	req := testutil.MakeRequest("DELETE", "/sessions/"+sess.InviteID+"/elimination/r1", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	req.SetPathValue("candidateID", "r1")
	w := httptest.NewRecorder()
	handler.Eliminate(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestPreview(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ids := testutil.SeedTestCatalog(t, conn)

	cfg := testutil.GetTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewResultsHandler(conn, cfg, st, candidates.NewSQLCatalog(conn))

	sess, _ := testutil.CreateTestSession(t, st, cfg, ids)

	req := testutil.MakeRequest("GET", "/sessions/"+sess.InviteID+"/preview", nil, nil)
	req.SetPathValue("invite", sess.InviteID)
	w := httptest.NewRecorder()
	handler.Preview(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PreviewResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Candidates) != 4 {
		t.Fatalf("Expected 4 previews, got %d", len(resp.Candidates))
	}
	first := resp.Candidates[0]
	if first.Name != "Sushi Stop" {
		t.Errorf("Expected Sushi Stop first, got %q", first.Name)
	}
	if first.PriceLabel != "$$$" {
		t.Errorf("Expected $$$ price label, got %q", first.PriceLabel)
	}
	if first.DistanceLabel != "1 km away" {
		t.Errorf("Expected '1 km away', got %q", first.DistanceLabel)
	}
}
