// Package normalizer maps raw Ergast entities onto the service's record shapes.
// It holds no business logic: a malformed entity is reported, never repaired.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// ErrMissingField is wrapped by every rejection of an entity lacking a required field
var ErrMissingField = errors.New("missing required field")

// sessionKeys maps Ergast session objects onto session kinds. Later keys win when
// two map to the same kind, so SprintQualifying overrides the older SprintShootout.
var sessionKeys = []struct {
	key  string
	kind models.SessionKind
}{
	{"FirstPractice", models.SessionPractice1},
	{"SecondPractice", models.SessionPractice2},
	{"ThirdPractice", models.SessionPractice3},
	{"Qualifying", models.SessionQualifying},
	{"SprintShootout", models.SessionSprintQualifying},
	{"SprintQualifying", models.SessionSprintQualifying},
	{"Sprint", models.SessionSprint},
}

// NormalizeDriver maps one DriverStandings element
func NormalizeDriver(raw map[string]interface{}) (models.StandingEntry, error) {
	entry, err := normalizeRanked(raw)
	if err != nil {
		return models.StandingEntry{}, err
	}

	driver := extractMap(raw, "Driver")
	entry.Code = extractString(driver, "code")
	entry.Identity = entry.Code
	if entry.Identity == "" {
		entry.Identity = extractString(driver, "driverId")
	}
	if entry.Identity == "" {
		return models.StandingEntry{}, fmt.Errorf("driver at rank %d: %w: code", entry.Rank, ErrMissingField)
	}

	entry.GivenName = extractString(driver, "givenName")
	entry.FamilyName = extractString(driver, "familyName")
	entry.Name = strings.TrimSpace(entry.GivenName + " " + entry.FamilyName)
	entry.Nationality = extractString(driver, "nationality")

	if constructors := extractArray(raw, "Constructors"); len(constructors) > 0 {
		if c, ok := constructors[0].(map[string]interface{}); ok {
			entry.Team = extractString(c, "name")
		}
	}

	return entry, nil
}

// NormalizeConstructor maps one ConstructorStandings element
func NormalizeConstructor(raw map[string]interface{}) (models.StandingEntry, error) {
	entry, err := normalizeRanked(raw)
	if err != nil {
		return models.StandingEntry{}, err
	}

	constructor := extractMap(raw, "Constructor")
	entry.Name = extractString(constructor, "name")
	entry.Identity = entry.Name
	if entry.Identity == "" {
		return models.StandingEntry{}, fmt.Errorf("constructor at rank %d: %w: name", entry.Rank, ErrMissingField)
	}
	entry.Nationality = extractString(constructor, "nationality")

	return entry, nil
}

// normalizeRanked reads the fields shared by both standing kinds
func normalizeRanked(raw map[string]interface{}) (models.StandingEntry, error) {
	rank, ok := lookupInt(raw, "position")
	if !ok || rank < 1 {
		return models.StandingEntry{}, fmt.Errorf("%w: position", ErrMissingField)
	}

	points, ok := lookupFloat(raw, "points")
	if !ok || points < 0 {
		return models.StandingEntry{}, fmt.Errorf("rank %d: %w: points", rank, ErrMissingField)
	}

	wins, ok := lookupInt(raw, "wins")
	if !ok || wins < 0 {
		wins = 0
	}

	return models.StandingEntry{Rank: rank, Points: points, Wins: wins}, nil
}

// NormalizeEvent maps one RaceTable.Races element. Optional sessions that are absent
// upstream are absent from the result.
func NormalizeEvent(raw map[string]interface{}) (models.ScheduleEvent, error) {
	round, ok := lookupInt(raw, "round")
	if !ok || round < 1 {
		return models.ScheduleEvent{}, fmt.Errorf("%w: round", ErrMissingField)
	}

	circuit := extractMap(raw, "Circuit")
	circuitID := extractString(circuit, "circuitId")
	if circuitID == "" {
		return models.ScheduleEvent{}, fmt.Errorf("round %d: %w: circuitId", round, ErrMissingField)
	}

	dateStr := extractString(raw, "date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return models.ScheduleEvent{}, fmt.Errorf("round %d: %w: date", round, ErrMissingField)
	}

	season, _ := lookupInt(raw, "season")
	location := extractMap(circuit, "Location")

	event := models.ScheduleEvent{
		Season:      season,
		Round:       round,
		Name:        extractString(raw, "raceName"),
		CircuitID:   circuitID,
		CircuitName: extractString(circuit, "circuitName"),
		URL:         extractString(raw, "url"),
		Location: models.Location{
			Country:  extractString(location, "country"),
			Locality: extractString(location, "locality"),
		},
		Date:     date,
		Time:     extractString(raw, "time"),
		Sessions: make(map[models.SessionKind]models.Session),
	}

	event.Sessions[models.SessionRace] = models.Session{Date: dateStr, Time: event.Time}
	for _, sk := range sessionKeys {
		s := extractMap(raw, sk.key)
		d := extractString(s, "date")
		if d == "" {
			continue
		}
		event.Sessions[sk.kind] = models.Session{Date: d, Time: extractString(s, "time")}
	}

	return event, nil
}

// Standings normalizes a whole standings list, dropping malformed entities
func Standings(category models.Category, entities []interface{}) ([]models.StandingEntry, []models.Diagnostic) {
	normalize := NormalizeDriver
	if category == models.CategoryConstructors {
		normalize = NormalizeConstructor
	}

	entries := make([]models.StandingEntry, 0, len(entities))
	var diags []models.Diagnostic

	for i, e := range entities {
		raw, ok := e.(map[string]interface{})
		if !ok {
			diags = append(diags, dropped(category, i, fmt.Errorf("entity is %T, not an object", e)))
			continue
		}

		entry, err := normalize(raw)
		if err != nil {
			diags = append(diags, dropped(category, i, err))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, diags
}

// Events normalizes a race table, dropping malformed events
func Events(entities []interface{}) ([]models.ScheduleEvent, []models.Diagnostic) {
	events := make([]models.ScheduleEvent, 0, len(entities))
	var diags []models.Diagnostic

	for i, e := range entities {
		raw, ok := e.(map[string]interface{})
		if !ok {
			diags = append(diags, dropped(models.CategorySchedule, i, fmt.Errorf("entity is %T, not an object", e)))
			continue
		}

		event, err := NormalizeEvent(raw)
		if err != nil {
			diags = append(diags, dropped(models.CategorySchedule, i, err))
			continue
		}
		events = append(events, event)
	}

	return events, diags
}

func dropped(category models.Category, index int, err error) models.Diagnostic {
	return models.Diagnostic{
		Code:   models.DiagEntityDropped,
		Detail: fmt.Sprintf("%s entity #%d dropped: %v", category, index, err),
	}
}
