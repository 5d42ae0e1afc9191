// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kylemcd/tablepick/party"
)

// SQLCatalog is a Provider backed by the restaurant table. All rows are
// loaded and ranked in memory; the catalog is small enough that pushing
// filters into SQL would buy nothing and would split the ranking logic
// across two languages.
type SQLCatalog struct {
	db *sql.DB
}

func NewSQLCatalog(db *sql.DB) *SQLCatalog {
	return &SQLCatalog{db: db}
}

func (c *SQLCatalog) Search(filters party.Filters, profiles []PreferenceProfile) ([]Candidate, error) {
	rows, err := c.db.Query(`SELECT id, name, rating, price_tier, cuisines, address,
		lat, lng, photo_urls, description, family_friendly, distance_km
		FROM restaurant`)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var cands []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return Rank(cands, filters, profiles), nil
}

// ByIDs loads the named candidates, preserving the order of ids. Unknown
// ids are skipped rather than erroring so a session whose catalog rows
// were pruned still renders.
func (c *SQLCatalog) ByIDs(ids []string) ([]Candidate, error) {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		row := c.db.QueryRow(`SELECT id, name, rating, price_tier, cuisines, address,
			lat, lng, photo_urls, description, family_friendly, distance_km
			FROM restaurant WHERE id = $1`, id)
		cand, err := scanCandidate(row)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, nil
}

// Seed inserts candidates, replacing any row with the same id. Used by
// the -seed flag and by tests.
func Seed(db *sql.DB, cands []Candidate) error {
	for _, c := range cands {
		cuisines, err := json.Marshal(c.Cuisines)
		if err != nil {
			return fmt.Errorf("marshal cuisines for %s: %w", c.ID, err)
		}
		photos, err := json.Marshal(c.PhotoURLs)
		if err != nil {
			return fmt.Errorf("marshal photos for %s: %w", c.ID, err)
		}
		_, err = db.Exec(`INSERT INTO restaurant
			(id, name, rating, price_tier, cuisines, address, lat, lng, photo_urls, description, family_friendly, distance_km)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, rating = EXCLUDED.rating, price_tier = EXCLUDED.price_tier,
				cuisines = EXCLUDED.cuisines, address = EXCLUDED.address, lat = EXCLUDED.lat,
				lng = EXCLUDED.lng, photo_urls = EXCLUDED.photo_urls, description = EXCLUDED.description,
				family_friendly = EXCLUDED.family_friendly, distance_km = EXCLUDED.distance_km`,
			c.ID, c.Name, c.Rating, c.PriceTier, string(cuisines), c.Address,
			c.Lat, c.Lng, string(photos), c.Description, c.FamilyFriendly, c.DistanceKm)
		if err != nil {
			return fmt.Errorf("seed restaurant %s: %w", c.ID, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var c Candidate
	var cuisines, photos string
	err := row.Scan(&c.ID, &c.Name, &c.Rating, &c.PriceTier, &cuisines, &c.Address,
		&c.Lat, &c.Lng, &photos, &c.Description, &c.FamilyFriendly, &c.DistanceKm)
	if err != nil {
		return Candidate{}, err
	}
	if cuisines != "" {
		if err := json.Unmarshal([]byte(cuisines), &c.Cuisines); err != nil {
			return Candidate{}, fmt.Errorf("decode cuisines for %s: %w", c.ID, err)
		}
	}
	if photos != "" {
		if err := json.Unmarshal([]byte(photos), &c.PhotoURLs); err != nil {
			return Candidate{}, fmt.Errorf("decode photos for %s: %w", c.ID, err)
		}
	}
	return c, nil
}

// SampleCatalog is a small demo data set for local development.
func SampleCatalog() []Candidate {
	return []Candidate{
		{ID: "r-noodle-house", Name: "Lucky Noodle House", Rating: 4.6, PriceTier: 1,
			Cuisines: []string{"chinese", "noodles"}, Address: "412 Grant Ave",
			FamilyFriendly: true, DistanceKm: 1.2},
		{ID: "r-la-taqueria", Name: "La Taqueria del Sol", Rating: 4.8, PriceTier: 1,
			Cuisines: []string{"mexican"}, Address: "2889 Mission St",
			FamilyFriendly: true, DistanceKm: 2.4},
		{ID: "r-bella-notte", Name: "Bella Notte", Rating: 4.3, PriceTier: 3,
			Cuisines: []string{"italian"}, Address: "17 Columbus Ave",
			FamilyFriendly: false, DistanceKm: 3.1},
		{ID: "r-sakura", Name: "Sakura Omakase", Rating: 4.9, PriceTier: 4,
			Cuisines: []string{"japanese", "sushi"}, Address: "501 Post St",
			FamilyFriendly: false, DistanceKm: 0.8},
		{ID: "r-garden-grill", Name: "Garden Grill", Rating: 4.1, PriceTier: 2,
			Cuisines: []string{"american", "burgers"}, Address: "1200 Oak St",
			FamilyFriendly: true, DistanceKm: 5.6},
		{ID: "r-pho-central", Name: "Pho Central", Rating: 4.4, PriceTier: 1,
			Cuisines: []string{"vietnamese", "noodles"}, Address: "833 Larkin St",
			FamilyFriendly: true, DistanceKm: 1.9},
	}
}
