// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"sort"

	"github.com/kylemcd/tablepick/party"
)

// Candidate is one restaurant in the swipe deck. The session core never
// mutates candidates; it references them by ID and indexes into the ordered
// sequence a Provider returns.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`
	PriceTier      int      `json:"price_tier"`
	Cuisines       []string `json:"cuisines,omitempty"`
	Address        string   `json:"address,omitempty"`
	Lat            float64  `json:"lat,omitempty"`
	Lng            float64  `json:"lng,omitempty"`
	PhotoURLs      []string `json:"photo_urls,omitempty"`
	Description    string   `json:"description,omitempty"`
	FamilyFriendly bool     `json:"family_friendly"`
	DistanceKm     float64  `json:"distance_km"`
}

// PreferenceProfile maps cuisine tags to a diner's preference score.
// Profiles are owned elsewhere; the provider only reads them to bias
// ranking.
type PreferenceProfile map[string]float64

// Provider produces the ordered, deduplicated candidate sequence for a
// filter snapshot. A failing provider should degrade to an empty sequence
// upstream of the session core (which then starts exhausted).
type Provider interface {
	Search(filters party.Filters, profiles []PreferenceProfile) ([]Candidate, error)
}

// Catalog extends Provider with lookup by id, for rendering candidates a
// session already snapshotted.
type Catalog interface {
	Provider
	ByIDs(ids []string) ([]Candidate, error)
}

// Rank filters, scores, orders, and deduplicates candidates. It is a pure
// function: score is the restaurant rating plus the average preference
// boost across profiles for matching cuisines, ties broken by ID for a
// stable sequence.
func Rank(cands []Candidate, filters party.Filters, profiles []PreferenceProfile) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if seen[c.ID] || !matches(c, filters) {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}

	scores := make(map[string]float64, len(out))
	for _, c := range out {
		scores[c.ID] = c.Rating + preferenceBoost(c, profiles)
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := scores[out[i].ID], scores[out[j].ID]
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(c Candidate, f party.Filters) bool {
	if f.MaxPriceTier > 0 && c.PriceTier > f.MaxPriceTier {
		return false
	}
	if f.MaxDistanceKm > 0 && c.DistanceKm > f.MaxDistanceKm {
		return false
	}
	if f.MinRating > 0 && c.Rating < f.MinRating {
		return false
	}
	if f.FamilyFriendly && !c.FamilyFriendly {
		return false
	}
	if len(f.Cuisines) > 0 && !hasAnyCuisine(c, f.Cuisines) {
		return false
	}
	return true
}

func hasAnyCuisine(c Candidate, wanted []string) bool {
	for _, w := range wanted {
		for _, have := range c.Cuisines {
			if have == w {
				return true
			}
		}
	}
	return false
}

func preferenceBoost(c Candidate, profiles []PreferenceProfile) float64 {
	if len(profiles) == 0 {
		return 0
	}
	var total float64
	for _, p := range profiles {
		for _, cuisine := range c.Cuisines {
			total += p[cuisine]
		}
	}
	return total / float64(len(profiles))
}

// IDs projects a candidate list to the id snapshot the session stores.
func IDs(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

// Static is a fixed in-memory Provider, used in tests and as a fallback
// when no catalog is configured.
type Static []Candidate

func (s Static) Search(filters party.Filters, profiles []PreferenceProfile) ([]Candidate, error) {
	return Rank(s, filters, profiles), nil
}

func (s Static) ByIDs(ids []string) ([]Candidate, error) {
	byID := make(map[string]Candidate, len(s))
	for _, c := range s {
		byID[c.ID] = c
	}
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
