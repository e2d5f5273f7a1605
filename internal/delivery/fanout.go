package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

type sink struct {
	name     string
	renderer contracts.Renderer
}

// Fanout delivers every message to each registered sink in order.
// A failing sink is logged and does not stop delivery to the others.
type Fanout struct {
	sinks  []sink
	logger *slog.Logger
}

// NewFanout creates an empty fan-out renderer
func NewFanout(logger *slog.Logger) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{logger: logger}
}

// Add registers a named sink
func (f *Fanout) Add(name string, r contracts.Renderer) *Fanout {
	f.sinks = append(f.sinks, sink{name: name, renderer: r})
	return f
}

// Sinks returns the registered sink names
func (f *Fanout) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.name
	}
	return names
}

func (f *Fanout) Deliver(ctx context.Context, msg models.Message) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.renderer.Deliver(ctx, msg); err != nil {
			f.logger.Warn("sink delivery failed",
				"sink", s.name,
				"type", msg.Type,
				"category", msg.Category,
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
