package categories

import (
	"fmt"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/normalizer"
	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
	"github.com/fortuna/services/f1-standings-service/internal/schedule"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// ScheduleModule implements CategoryModule for the race calendar
type ScheduleModule struct {
	maxRows        int
	focusCircuitID string
}

// NewSchedule creates the schedule module
func NewSchedule(maxRows int, focusCircuitID string) *ScheduleModule {
	return &ScheduleModule{
		maxRows:        maxRows,
		focusCircuitID: focusCircuitID,
	}
}

func (m *ScheduleModule) GetCategory() models.Category {
	return models.CategorySchedule
}

func (m *ScheduleModule) GetMessageType() string {
	return models.MessageTypeScheduleSummary
}

func (m *ScheduleModule) GetEndpoint(season int) string {
	return ergast.SchedulePath(season)
}

// Process resolves the current round and the (possibly focused) truncated calendar
func (m *ScheduleModule) Process(raw map[string]interface{}, now time.Time) (interface{}, []models.Diagnostic, error) {
	table, err := ergast.ExtractRaceTable(raw)
	if err != nil {
		return nil, nil, err
	}

	events, diags := normalizer.Events(table.Races)
	if len(table.Races) > 0 && len(events) == 0 {
		return nil, diags, fmt.Errorf("%w: none of %d races could be normalized", ergast.ErrSchema, len(table.Races))
	}

	season := table.Season
	if season == 0 && len(events) > 0 {
		season = events[0].Season
	}

	truncated, truncDiags := schedule.TruncateSchedule(events, m.maxRows, m.focusCircuitID)

	update := models.ScheduleUpdate{
		Summary: schedule.Summarize(season, table.Total, events, now),
		Events:  truncated,
	}

	return update, append(diags, truncDiags...), nil
}
