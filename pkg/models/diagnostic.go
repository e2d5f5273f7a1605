package models

import "fmt"

// DiagnosticCode classifies a non-fatal condition found while building a cycle's results
type DiagnosticCode string

const (
	DiagEntityDropped        DiagnosticCode = "entity-dropped"
	DiagFavoriteVisible      DiagnosticCode = "favorite-visible"
	DiagFavoriteUnknown      DiagnosticCode = "favorite-unknown"
	DiagFavoritePromoted     DiagnosticCode = "favorite-promoted"
	DiagNoEvictableSlot      DiagnosticCode = "no-evictable-slot"
	DiagFavoritesExceedLimit DiagnosticCode = "favorites-exceed-limit"
	DiagFocusUnknown         DiagnosticCode = "focus-unknown"
)

// Diagnostic is logged by the poller and never aborts a cycle
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Identity string         `json:"identity,omitempty"`
	Detail   string         `json:"detail"`
}

// Severe reports whether the diagnostic deserves a warning rather than a debug line
func (d Diagnostic) Severe() bool {
	switch d.Code {
	case DiagFavoriteVisible, DiagFavoritePromoted:
		return false
	default:
		return true
	}
}

func (d Diagnostic) String() string {
	if d.Identity == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Code, d.Identity, d.Detail)
}
