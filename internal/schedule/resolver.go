package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// ResolveCurrentRound counts the events whose race day is strictly before now.
// events must be ordered by round. The next event is nil once the season is complete.
func ResolveCurrentRound(events []models.ScheduleEvent, now time.Time) (int, *models.ScheduleEvent) {
	current := 0
	for _, e := range events {
		if e.Date.Before(now) {
			current++
		}
	}

	if current >= len(events) {
		return current, nil
	}

	next := events[current]
	return current, &next
}

// Summarize builds the season summary. total is the upstream round count; when it is
// missing the number of events is used. Completeness follows events, not total.
func Summarize(season, total int, events []models.ScheduleEvent, now time.Time) models.SeasonSummary {
	if total <= 0 {
		total = len(events)
	}

	current, next := ResolveCurrentRound(events, now)

	return models.SeasonSummary{
		Season:         season,
		TotalRounds:    total,
		CurrentRound:   current,
		SeasonComplete: next == nil && len(events) > 0,
		NextEvent:      next,
	}
}

// TruncateSchedule keeps the first maxRows events (all when maxRows is 0). A focused circuit
// that falls outside the cut replaces the last kept row.
func TruncateSchedule(events []models.ScheduleEvent, maxRows int, focusCircuitID string) ([]models.ScheduleEvent, []models.Diagnostic) {
	n := len(events)
	if maxRows > 0 && maxRows < n {
		n = maxRows
	}

	result := make([]models.ScheduleEvent, n)
	copy(result, events[:n])

	focus := strings.TrimSpace(focusCircuitID)
	if focus == "" || n == 0 {
		return result, nil
	}

	for _, e := range result {
		if strings.EqualFold(e.CircuitID, focus) {
			return result, nil
		}
	}

	for _, e := range events {
		if strings.EqualFold(e.CircuitID, focus) {
			result[n-1] = e
			return result, nil
		}
	}

	return result, []models.Diagnostic{{
		Code:     models.DiagFocusUnknown,
		Identity: focus,
		Detail:   fmt.Sprintf("focused circuit not in the %d scheduled events", len(events)),
	}}
}
