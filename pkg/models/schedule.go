package models

import "time"

// SessionKind names a session inside a race weekend
type SessionKind string

const (
	SessionPractice1        SessionKind = "practice1"
	SessionPractice2        SessionKind = "practice2"
	SessionPractice3        SessionKind = "practice3"
	SessionQualifying       SessionKind = "qualifying"
	SessionSprintQualifying SessionKind = "sprint-qualifying"
	SessionSprint           SessionKind = "sprint"
	SessionRace             SessionKind = "race"
)

// Session is the date and optional UTC time of one session, as published upstream
type Session struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// StartsAt parses the session start. Sessions without a time start at midnight UTC.
func (s Session) StartsAt() (time.Time, bool) {
	if s.Date == "" {
		return time.Time{}, false
	}
	if s.Time != "" {
		if t, err := time.Parse("2006-01-02 15:04:05Z", s.Date+" "+s.Time); err == nil {
			return t, true
		}
	}
	t, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Location of a circuit
type Location struct {
	Country  string `json:"country"`
	Locality string `json:"locality"`
}

// ScheduleEvent is one round (Grand Prix) of a season
type ScheduleEvent struct {
	Season      int                     `json:"season"`
	Round       int                     `json:"round"`
	Name        string                  `json:"name"`
	CircuitID   string                  `json:"circuit_id"`
	CircuitName string                  `json:"circuit_name,omitempty"`
	URL         string                  `json:"url,omitempty"`
	Location    Location                `json:"location"`
	Date        time.Time               `json:"date"` // race day, midnight UTC
	Time        string                  `json:"time,omitempty"`
	Sessions    map[SessionKind]Session `json:"sessions"`
}

// HasSession reports whether the event schedules the given session
func (e ScheduleEvent) HasSession(kind SessionKind) bool {
	_, ok := e.Sessions[kind]
	return ok
}

// SeasonSummary describes where the season currently stands
type SeasonSummary struct {
	Season         int            `json:"season"`
	TotalRounds    int            `json:"total_rounds"`
	CurrentRound   int            `json:"current_round"`
	SeasonComplete bool           `json:"season_complete"`
	NextEvent      *ScheduleEvent `json:"next_event,omitempty"`
}

// ScheduleUpdate is the payload of a schedule-summary message
type ScheduleUpdate struct {
	Summary SeasonSummary   `json:"summary"`
	Events  []ScheduleEvent `json:"events"`
}
