package models

// Category identifies one of the three upstream data sets
type Category string

const (
	CategorySchedule     Category = "schedule"
	CategoryDrivers      Category = "drivers"
	CategoryConstructors Category = "constructors"
)

// StandingEntry is a ranked driver or constructor record for one fetch cycle.
// Identity is the driver code (or driverId for seasons without codes) or the constructor name.
type StandingEntry struct {
	Rank        int     `json:"rank"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	Identity    string  `json:"identity"`
	Name        string  `json:"name"`
	Nationality string  `json:"nationality,omitempty"`
	Team        string  `json:"team,omitempty"`        // drivers only
	Code        string  `json:"code,omitempty"`        // drivers only
	GivenName   string  `json:"given_name,omitempty"`  // drivers only
	FamilyName  string  `json:"family_name,omitempty"` // drivers only
}

// DisplayEntry is a StandingEntry as shown in a bounded window
type DisplayEntry struct {
	StandingEntry
	IsFavorite bool `json:"is_favorite"`
}

// DisplayResult is the bounded, favorite-aware view handed to renderers
type DisplayResult struct {
	Category Category       `json:"category"`
	Entries  []DisplayEntry `json:"entries"`
}

// Identities returns the entry identities in display order
func (r DisplayResult) Identities() []string {
	ids := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.Identity
	}
	return ids
}
