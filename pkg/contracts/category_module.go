package contracts

import (
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// CategoryModule is the pluggable pipeline for one upstream data set
// (schedule, driver standings, constructor standings)
type CategoryModule interface {
	// Identification
	GetCategory() models.Category // "schedule", "drivers", "constructors"
	GetMessageType() string       // "schedule-summary", "driver-standings", ...
	GetEndpoint(season int) string

	// Process turns a decoded upstream payload into the message payload.
	// Entity-level defects come back as diagnostics; a returned error fails the category.
	Process(raw map[string]interface{}, now time.Time) (interface{}, []models.Diagnostic, error)
}
