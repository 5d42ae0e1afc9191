package candidates

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/kylemcd/tablepick/db"
	"github.com/kylemcd/tablepick/party"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(conn))
	return conn
}

func TestSQLCatalogSearch(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn, fixture()))

	cat := NewSQLCatalog(conn)
	got, err := cat.Search(party.Filters{MaxPriceTier: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c"}, IDs(got))
}

func TestSQLCatalogRoundTripsFields(t *testing.T) {
	conn := openTestDB(t)
	want := Candidate{
		ID: "r1", Name: "Trattoria", Rating: 4.2, PriceTier: 3,
		Cuisines: []string{"italian", "pizza"}, Address: "1 Via Roma",
		Lat: 37.77, Lng: -122.42, PhotoURLs: []string{"https://img.example/r1.jpg"},
		Description: "Wood-fired everything", FamilyFriendly: true, DistanceKm: 2.2,
	}
	require.NoError(t, Seed(conn, []Candidate{want}))

	got, err := NewSQLCatalog(conn).ByIDs([]string{"r1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestSQLCatalogSeedUpserts(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn, []Candidate{{ID: "r1", Name: "Old Name", Rating: 3.0}}))
	require.NoError(t, Seed(conn, []Candidate{{ID: "r1", Name: "New Name", Rating: 4.0}}))

	got, err := NewSQLCatalog(conn).ByIDs([]string{"r1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New Name", got[0].Name)
	assert.Equal(t, 4.0, got[0].Rating)
}

func TestSQLCatalogByIDsPreservesOrderAndSkipsUnknown(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn, fixture()))

	got, err := NewSQLCatalog(conn).ByIDs([]string{"c", "missing", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, IDs(got))
}

func TestSampleCatalogSeeds(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn, SampleCatalog()))

	got, err := NewSQLCatalog(conn).Search(party.Filters{}, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(SampleCatalog()))
}
