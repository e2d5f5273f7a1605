package models

import "strings"

// FocusConfig bounds a standings window and names the identities that must stay visible.
// Favorites keep their configured order; earlier favorites win when slots run out.
type FocusConfig struct {
	Favorites    []string `json:"favorites"`
	MaxDisplayed int      `json:"max_displayed"`
}

// NewFocusConfig builds a FocusConfig, dropping blank and repeated favorites
func NewFocusConfig(maxDisplayed int, favorites ...string) FocusConfig {
	if maxDisplayed < 0 {
		maxDisplayed = 0
	}

	seen := make(map[string]bool, len(favorites))
	ordered := make([]string, 0, len(favorites))
	for _, f := range favorites {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		ordered = append(ordered, f)
	}

	return FocusConfig{Favorites: ordered, MaxDisplayed: maxDisplayed}
}

// IsFavorite reports whether identity is configured as a favorite
func (c FocusConfig) IsFavorite(identity string) bool {
	for _, f := range c.Favorites {
		if f == identity {
			return true
		}
	}
	return false
}

// Bounded reports whether the window has a size limit
func (c FocusConfig) Bounded() bool {
	return c.MaxDisplayed > 0
}
