package delivery

import (
	"context"
	"sort"
	"sync"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// Snapshot keeps the latest message of each data type and the latest error of each category
type Snapshot struct {
	mu     sync.RWMutex
	latest map[string]models.Message
	errors map[models.Category]models.Message
}

// NewSnapshot creates an empty snapshot store
func NewSnapshot() *Snapshot {
	return &Snapshot{
		latest: make(map[string]models.Message),
		errors: make(map[models.Category]models.Message),
	}
}

// Deliver records msg. Messages older than the stored one of the same kind are ignored.
func (s *Snapshot) Deliver(_ context.Context, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Type == models.MessageTypeError {
		if prev, ok := s.errors[msg.Category]; ok && prev.Generation > msg.Generation {
			return nil
		}
		s.errors[msg.Category] = msg
		return nil
	}

	if prev, ok := s.latest[msg.Type]; ok && prev.Generation > msg.Generation {
		return nil
	}
	s.latest[msg.Type] = msg
	return nil
}

// Latest returns the newest message of a data type
func (s *Snapshot) Latest(messageType string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.latest[messageType]
	return msg, ok
}

// Errors returns the newest error of each category, ordered by category
func (s *Snapshot) Errors() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, 0, len(s.errors))
	for _, msg := range s.errors {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// All returns every retained message, data first, oldest generation first
func (s *Snapshot) All() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := make([]models.Message, 0, len(s.latest))
	for _, msg := range s.latest {
		data = append(data, msg)
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Generation != data[j].Generation {
			return data[i].Generation < data[j].Generation
		}
		return data[i].Type < data[j].Type
	})

	errs := make([]models.Message, 0, len(s.errors))
	for _, msg := range s.errors {
		errs = append(errs, msg)
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Category < errs[j].Category })

	return append(data, errs...)
}
