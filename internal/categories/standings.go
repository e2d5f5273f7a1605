package categories

import (
	"fmt"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/normalizer"
	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
	"github.com/fortuna/services/f1-standings-service/internal/selector"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// StandingsModule implements CategoryModule for driver and constructor standings
type StandingsModule struct {
	category models.Category
	listKey  string
	focus    models.FocusConfig
}

// NewDrivers creates the driver standings module
func NewDrivers(focus models.FocusConfig) *StandingsModule {
	return &StandingsModule{
		category: models.CategoryDrivers,
		listKey:  "DriverStandings",
		focus:    focus,
	}
}

// NewConstructors creates the constructor standings module
func NewConstructors(focus models.FocusConfig) *StandingsModule {
	return &StandingsModule{
		category: models.CategoryConstructors,
		listKey:  "ConstructorStandings",
		focus:    focus,
	}
}

func (m *StandingsModule) GetCategory() models.Category {
	return m.category
}

func (m *StandingsModule) GetMessageType() string {
	return models.MessageTypeFor(m.category)
}

func (m *StandingsModule) GetEndpoint(season int) string {
	if m.category == models.CategoryConstructors {
		return ergast.ConstructorStandingsPath(season)
	}
	return ergast.DriverStandingsPath(season)
}

// Process normalizes the latest standings list and bounds it to the focus window
func (m *StandingsModule) Process(raw map[string]interface{}, now time.Time) (interface{}, []models.Diagnostic, error) {
	list, err := ergast.ExtractStandings(raw, m.listKey)
	if err != nil {
		return nil, nil, err
	}

	entries, diags := normalizer.Standings(m.category, list.Entries)
	if len(list.Entries) > 0 && len(entries) == 0 {
		return nil, diags, fmt.Errorf("%w: none of %d %s entries could be normalized",
			ergast.ErrSchema, len(list.Entries), m.category)
	}

	result, selectDiags := selector.Standings(m.category, entries, m.focus)
	return result, append(diags, selectDiags...), nil
}
