// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kylemcd/tablepick/auth"
	"github.com/kylemcd/tablepick/candidates"
	"github.com/kylemcd/tablepick/cliparse"
	"github.com/kylemcd/tablepick/db"
	"github.com/kylemcd/tablepick/party"
	"github.com/kylemcd/tablepick/store"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// The in-memory database lives on a single connection; a second one
	// would see an empty schema.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3414,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		HostKeySalt:  "test-host-salt",
		BatchSize:    3,
		SingleDevice: true,
	}
}

// SeedTestCatalog inserts a small fixed restaurant catalog and returns its
// ids in rank order (descending rating)
func SeedTestCatalog(t *testing.T, conn *sql.DB) []string {
	t.Helper()

	cands := []candidates.Candidate{
		{ID: "r1", Name: "Sushi Stop", Rating: 4.8, PriceTier: 3,
			Cuisines: []string{"japanese"}, FamilyFriendly: false, DistanceKm: 1.0},
		{ID: "r2", Name: "Taco Cart", Rating: 4.5, PriceTier: 1,
			Cuisines: []string{"mexican"}, FamilyFriendly: true, DistanceKm: 0.5},
		{ID: "r3", Name: "Pasta Place", Rating: 4.2, PriceTier: 2,
			Cuisines: []string{"italian"}, FamilyFriendly: true, DistanceKm: 2.0},
		{ID: "r4", Name: "Burger Barn", Rating: 3.9, PriceTier: 1,
			Cuisines: []string{"american"}, FamilyFriendly: true, DistanceKm: 3.5},
	}
	if err := candidates.Seed(conn, cands); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	return []string{"r1", "r2", "r3", "r4"}
}

// CreateTestSession builds and saves a session directly through the store,
// returning it along with its host key
func CreateTestSession(t *testing.T, st store.Store, cfg cliparse.Config, candidateIDs []string) (*party.Session, string) {
	t.Helper()

	inviteID, err := auth.GenerateInviteID()
	if err != nil {
		t.Fatalf("Failed to generate invite id: %v", err)
	}
	hostKey := auth.GenerateHostKey(inviteID, cfg.HostKeySalt)

	sess := party.NewSession(inviteID, "host", party.Filters{}, candidateIDs, cfg.BatchSize)
	sess.SingleDevice = cfg.SingleDevice
	if _, err := sess.AddDiner("host", party.ModeInPerson); err != nil {
		t.Fatalf("Failed to add host diner: %v", err)
	}

	if err := st.Save(sess); err != nil {
		t.Fatalf("Failed to save test session: %v", err)
	}

	return sess, hostKey
}

// JoinTestDiner adds a diner to a stored session
func JoinTestDiner(t *testing.T, st store.Store, inviteID, dinerID string, mode party.AttendanceMode) {
	t.Helper()

	sess, err := st.Load(inviteID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if _, err := sess.AddDiner(dinerID, mode); err != nil {
		t.Fatalf("Failed to add diner: %v", err)
	}
	if err := st.Save(sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
}

// IssueTestDinerToken inserts a diner token row and returns the token
func IssueTestDinerToken(t *testing.T, conn *sql.DB, inviteID, dinerID string) string {
	t.Helper()

	token, err := auth.GenerateDinerToken()
	if err != nil {
		t.Fatalf("Failed to generate diner token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO diner_token (invite_id, diner_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`, inviteID, dinerID, token, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert diner token: %v", err)
	}

	return token
}

// RegisterTestDevice inserts a device row and returns its id
func RegisterTestDevice(t *testing.T, conn *sql.DB, deviceUUID, platform string) string {
	t.Helper()

	deviceID, _ := auth.GenerateID(16)
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, platform, now, now)
	if err != nil {
		t.Fatalf("Failed to insert test device: %v", err)
	}

	return deviceID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
