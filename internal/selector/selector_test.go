package selector_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/fortuna/services/f1-standings-service/internal/selector"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

func ranked(ids ...string) []models.StandingEntry {
	entries := make([]models.StandingEntry, len(ids))
	for i, id := range ids {
		entries[i] = models.StandingEntry{
			Rank:     i + 1,
			Points:   float64(100 - i*10),
			Wins:     len(ids) - i,
			Identity: id,
		}
	}
	return entries
}

func hasCode(diags []models.Diagnostic, code models.DiagnosticCode) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestStandings_Examples(t *testing.T) {
	tests := []struct {
		name      string
		ranked    []models.StandingEntry
		cfg       models.FocusConfig
		want      []string
		favorites []string
	}{
		{
			name:   "no favorites keeps top k",
			ranked: ranked("A", "B", "C", "D", "E"),
			cfg:    models.NewFocusConfig(3),
			want:   []string{"A", "B", "C"},
		},
		{
			name:      "favorite outside window replaces last slot",
			ranked:    ranked("A", "B", "C", "D", "E"),
			cfg:       models.NewFocusConfig(3, "D"),
			want:      []string{"A", "B", "D"},
			favorites: []string{"D"},
		},
		{
			name:      "favorites already visible",
			ranked:    ranked("A", "B", "C", "D", "E"),
			cfg:       models.NewFocusConfig(3, "A", "B", "C"),
			want:      []string{"A", "B", "C"},
			favorites: []string{"A", "B", "C"},
		},
		{
			name:      "two favorites evict the whole window",
			ranked:    ranked("A", "B", "C", "D", "E"),
			cfg:       models.NewFocusConfig(2, "D", "E"),
			want:      []string{"D", "E"},
			favorites: []string{"D", "E"},
		},
		{
			name:      "visible favorite is never evicted",
			ranked:    ranked("A", "B", "C", "D", "E"),
			cfg:       models.NewFocusConfig(3, "E", "C"),
			want:      []string{"A", "C", "E"},
			favorites: []string{"C", "E"},
		},
		{
			name:      "unbounded returns everything",
			ranked:    ranked("A", "B", "C"),
			cfg:       models.NewFocusConfig(0, "B"),
			want:      []string{"A", "B", "C"},
			favorites: []string{"B"},
		},
		{
			name:      "window larger than list",
			ranked:    ranked("A", "B"),
			cfg:       models.NewFocusConfig(5, "B"),
			want:      []string{"A", "B"},
			favorites: []string{"B"},
		},
		{
			name:   "empty list",
			ranked: nil,
			cfg:    models.NewFocusConfig(3, "A"),
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := selector.Standings(models.CategoryDrivers, tt.ranked, tt.cfg)

			got := result.Identities()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Standings() = %v, want %v", got, tt.want)
			}

			var favs []string
			for _, e := range result.Entries {
				if e.IsFavorite {
					favs = append(favs, e.Identity)
				}
			}
			if len(favs) != len(tt.favorites) {
				t.Errorf("favorites flagged = %v, want %v", favs, tt.favorites)
			}
			if result.Category != models.CategoryDrivers {
				t.Errorf("Category = %s, want drivers", result.Category)
			}
		})
	}
}

func TestStandings_PromotionKeepsRankingData(t *testing.T) {
	list := ranked("A", "B", "C", "D", "E")
	result, _ := selector.Standings(models.CategoryDrivers, list, models.NewFocusConfig(3, "E"))

	last := result.Entries[len(result.Entries)-1]
	if last.StandingEntry != list[4] {
		t.Errorf("promoted entry = %+v, want %+v", last.StandingEntry, list[4])
	}
}

func TestStandings_UnknownFavorite(t *testing.T) {
	result, diags := selector.Standings(models.CategoryDrivers, ranked("A", "B", "C"), models.NewFocusConfig(2, "ZZZ"))

	if got := result.Identities(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Standings() = %v, want [A B]", got)
	}
	if !hasCode(diags, models.DiagFavoriteUnknown) {
		t.Errorf("expected %s diagnostic, got %v", models.DiagFavoriteUnknown, diags)
	}
}

func TestStandings_AllSlotsFavorites(t *testing.T) {
	cfg := models.NewFocusConfig(2, "D", "E", "C")

	result, diags := selector.Standings(models.CategoryDrivers, ranked("A", "B", "C", "D", "E"), cfg)

	// first configured favorites win the limited slots
	if got := result.Identities(); !reflect.DeepEqual(got, []string{"D", "E"}) {
		t.Errorf("Standings() = %v, want [D E]", got)
	}
	if !hasCode(diags, models.DiagNoEvictableSlot) {
		t.Errorf("expected %s diagnostic", models.DiagNoEvictableSlot)
	}

	exceed := 0
	for _, d := range diags {
		if d.Code == models.DiagFavoritesExceedLimit {
			exceed++
		}
	}
	if exceed != 1 {
		t.Errorf("expected exactly one %s diagnostic, got %d", models.DiagFavoritesExceedLimit, exceed)
	}
}

func TestStandings_Idempotent(t *testing.T) {
	list := ranked("A", "B", "C", "D", "E", "F")
	cfg := models.NewFocusConfig(3, "F", "D")

	first, firstDiags := selector.Standings(models.CategoryConstructors, list, cfg)
	second, secondDiags := selector.Standings(models.CategoryConstructors, list, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %v vs %v", first.Identities(), second.Identities())
	}
	if !reflect.DeepEqual(firstDiags, secondDiags) {
		t.Error("diagnostics differ between identical calls")
	}
	if !reflect.DeepEqual(list, ranked("A", "B", "C", "D", "E", "F")) {
		t.Error("input list was modified")
	}
}

func TestSelect_Properties(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	list := ranked(ids...)

	favoriteSets := [][]string{
		nil,
		{"H"},
		{"A", "H"},
		{"G", "B", "E"},
		{"H", "G", "F", "E"},
		{"X", "H"},
	}

	for k := 1; k <= len(ids)+1; k++ {
		for _, favs := range favoriteSets {
			name := fmt.Sprintf("k=%d favorites=%v", k, favs)
			t.Run(name, func(t *testing.T) {
				cfg := models.NewFocusConfig(k, favs...)
				result, _ := selector.Standings(models.CategoryDrivers, list, cfg)
				got := result.Identities()

				if len(got) > k {
					t.Fatalf("window grew to %d, limit %d", len(got), k)
				}

				if len(favs) == 0 {
					want := ids
					if k < len(ids) {
						want = ids[:k]
					}
					if !reflect.DeepEqual(got, want) {
						t.Errorf("Standings() = %v, want %v", got, want)
					}
					return
				}

				if len(cfg.Favorites) <= k {
					for _, f := range cfg.Favorites {
						if f == "X" {
							continue
						}
						found := false
						for _, id := range got {
							if id == f {
								found = true
							}
						}
						if !found {
							t.Errorf("favorite %s missing from %v", f, got)
						}
					}
				}

				seen := make(map[string]bool)
				for _, id := range got {
					if seen[id] {
						t.Errorf("duplicate %s in %v", id, got)
					}
					seen[id] = true
				}
			})
		}
	}
}

func TestSelect_GenericIdentity(t *testing.T) {
	type team struct{ name string }
	list := []team{{"Ferrari"}, {"McLaren"}, {"Williams"}}

	picks, _ := selector.Select(list, models.NewFocusConfig(1, "Williams"), func(t team) string { return t.name })

	if len(picks) != 1 || picks[0].Item.name != "Williams" || !picks[0].IsFavorite {
		t.Errorf("Select() = %+v, want [Williams favorite]", picks)
	}
}
