// Package selector bounds a ranked list to a display window while keeping favorites visible.
package selector

import (
	"fmt"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// Pick is one slot of a display window
type Pick[T any] struct {
	Item       T
	IsFavorite bool
}

// Select returns at most cfg.MaxDisplayed items of ranked (all of them when unbounded).
//
// The window starts as the top of ranked. Each favorite, in configured order, that is not
// already visible replaces the last non-favorite slot and is appended at the end; when every
// slot already holds a favorite the remaining favorites are skipped. ranked must already be
// in rank order and is never modified.
func Select[T any](ranked []T, cfg models.FocusConfig, identity func(T) string) ([]Pick[T], []models.Diagnostic) {
	var diags []models.Diagnostic

	favorites := make(map[string]bool, len(cfg.Favorites))
	for _, f := range cfg.Favorites {
		favorites[f] = true
	}

	if !cfg.Bounded() {
		picks := make([]Pick[T], len(ranked))
		for i, item := range ranked {
			picks[i] = Pick[T]{Item: item, IsFavorite: favorites[identity(item)]}
		}
		return picks, diags
	}

	if len(cfg.Favorites) > cfg.MaxDisplayed {
		diags = append(diags, models.Diagnostic{
			Code: models.DiagFavoritesExceedLimit,
			Detail: fmt.Sprintf("%d favorites configured for %d slots, some favorites will not be displayed",
				len(cfg.Favorites), cfg.MaxDisplayed),
		})
	}

	size := cfg.MaxDisplayed
	if len(ranked) < size {
		size = len(ranked)
	}

	window := make([]Pick[T], 0, cfg.MaxDisplayed)
	for _, item := range ranked[:size] {
		window = append(window, Pick[T]{Item: item, IsFavorite: favorites[identity(item)]})
	}

	for _, fav := range cfg.Favorites {
		if indexOf(window, fav, identity) >= 0 {
			diags = append(diags, models.Diagnostic{
				Code:     models.DiagFavoriteVisible,
				Identity: fav,
				Detail:   "favorite already within the window",
			})
			continue
		}

		pos := -1
		for i, item := range ranked {
			if identity(item) == fav {
				pos = i
				break
			}
		}
		if pos < 0 {
			diags = append(diags, models.Diagnostic{
				Code:     models.DiagFavoriteUnknown,
				Identity: fav,
				Detail:   "favorite not present in this cycle's standings",
			})
			continue
		}

		if len(window) >= cfg.MaxDisplayed {
			evict := -1
			for i := len(window) - 1; i >= 0; i-- {
				if !window[i].IsFavorite {
					evict = i
					break
				}
			}
			if evict < 0 {
				diags = append(diags, models.Diagnostic{
					Code:     models.DiagNoEvictableSlot,
					Identity: fav,
					Detail:   "all displayed slots are favorites, cannot add more",
				})
				continue
			}

			evicted := identity(window[evict].Item)
			window = append(window[:evict], window[evict+1:]...)
			diags = append(diags, models.Diagnostic{
				Code:     models.DiagFavoritePromoted,
				Identity: fav,
				Detail:   fmt.Sprintf("evicted %s to make room", evicted),
			})
		}

		window = append(window, Pick[T]{Item: ranked[pos], IsFavorite: true})
	}

	return window, diags
}

func indexOf[T any](window []Pick[T], id string, identity func(T) string) int {
	for i, p := range window {
		if identity(p.Item) == id {
			return i
		}
	}
	return -1
}

// Standings applies Select to a normalized standings list
func Standings(category models.Category, ranked []models.StandingEntry, cfg models.FocusConfig) (models.DisplayResult, []models.Diagnostic) {
	picks, diags := Select(ranked, cfg, func(e models.StandingEntry) string { return e.Identity })

	result := models.DisplayResult{
		Category: category,
		Entries:  make([]models.DisplayEntry, len(picks)),
	}
	for i, p := range picks {
		result.Entries[i] = models.DisplayEntry{StandingEntry: p.Item, IsFavorite: p.IsFavorite}
	}

	return result, diags
}
