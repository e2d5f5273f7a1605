package models

import "time"

// Message types for the renderer boundary
const (
	MessageTypeScheduleSummary      = "schedule-summary"
	MessageTypeDriverStandings      = "driver-standings"
	MessageTypeConstructorStandings = "constructor-standings"
	MessageTypeError                = "error"
)

// ErrorKind distinguishes transport from schema failures
type ErrorKind string

const (
	ErrorKindFetch  ErrorKind = "fetch"
	ErrorKindSchema ErrorKind = "schema"
)

// Message is the unit delivered to renderers. Generation identifies the poll cycle.
type Message struct {
	Type       string      `json:"type"`
	Category   Category    `json:"category"`
	Generation uint64      `json:"generation"`
	Season     int         `json:"season"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ErrorReport is the payload of an error message
type ErrorReport struct {
	Category Category  `json:"category"`
	Kind     ErrorKind `json:"kind"`
	Detail   string    `json:"detail"`
}

// MessageTypeFor returns the data message type of a category
func MessageTypeFor(c Category) string {
	switch c {
	case CategoryDrivers:
		return MessageTypeDriverStandings
	case CategoryConstructors:
		return MessageTypeConstructorStandings
	default:
		return MessageTypeScheduleSummary
	}
}
