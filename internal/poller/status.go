package poller

import (
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// State is the phase of one category within the current cycle
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateDelivering State = "delivering"
	StateFailed     State = "failed"
)

// CategoryStatus is the last known state of one category
type CategoryStatus struct {
	Category    models.Category `json:"category"`
	State       State           `json:"state"`
	Generation  uint64          `json:"generation"`
	LastError   string          `json:"last_error,omitempty"`
	LastSuccess time.Time       `json:"last_success,omitempty"`
	LastFailure time.Time       `json:"last_failure,omitempty"`
}

// Status is a snapshot of the poller
type Status struct {
	Generation uint64           `json:"generation"`
	Season     string           `json:"season"`
	Interval   string           `json:"interval"`
	Categories []CategoryStatus `json:"categories"`
}

// Healthy reports whether every category's last attempt succeeded
func (s Status) Healthy() bool {
	for _, c := range s.Categories {
		if c.LastError != "" {
			return false
		}
	}
	return true
}
