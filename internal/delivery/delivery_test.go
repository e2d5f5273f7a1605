package delivery_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fortuna/services/f1-standings-service/internal/delivery"
	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

func msg(typ string, category models.Category, gen uint64) models.Message {
	return models.Message{Type: typ, Category: category, Generation: gen}
}

func TestSnapshot_KeepsLatestPerType(t *testing.T) {
	s := delivery.NewSnapshot()
	ctx := context.Background()

	s.Deliver(ctx, msg(models.MessageTypeDriverStandings, models.CategoryDrivers, 2))
	s.Deliver(ctx, msg(models.MessageTypeDriverStandings, models.CategoryDrivers, 1))
	s.Deliver(ctx, msg(models.MessageTypeScheduleSummary, models.CategorySchedule, 1))

	got, ok := s.Latest(models.MessageTypeDriverStandings)
	if !ok || got.Generation != 2 {
		t.Errorf("Latest(driver-standings) = %+v, %v, want generation 2", got, ok)
	}

	if _, ok := s.Latest(models.MessageTypeConstructorStandings); ok {
		t.Error("Expected no constructor standings yet")
	}

	all := s.All()
	if len(all) != 2 || all[0].Type != models.MessageTypeScheduleSummary {
		t.Errorf("All() = %+v", all)
	}
}

func TestSnapshot_ErrorsPerCategory(t *testing.T) {
	s := delivery.NewSnapshot()
	ctx := context.Background()

	s.Deliver(ctx, msg(models.MessageTypeError, models.CategorySchedule, 1))
	s.Deliver(ctx, msg(models.MessageTypeError, models.CategoryDrivers, 1))
	s.Deliver(ctx, msg(models.MessageTypeError, models.CategoryDrivers, 3))

	errs := s.Errors()
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	if errs[0].Category != models.CategoryDrivers || errs[0].Generation != 3 {
		t.Errorf("errs[0] = %+v, want drivers generation 3", errs[0])
	}

	// errors never shadow data
	if _, ok := s.Latest(models.MessageTypeError); ok {
		t.Error("Latest(error) should not be stored as data")
	}
}

func TestFanout_ContinuesAfterFailingSink(t *testing.T) {
	var calls []string
	record := func(name string, err error) contracts.Renderer {
		return contracts.RendererFunc(func(ctx context.Context, m models.Message) error {
			calls = append(calls, name)
			return err
		})
	}

	f := delivery.NewFanout(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Add("first", record("first", nil)).
		Add("broken", record("broken", errors.New("connection refused"))).
		Add("last", record("last", nil))

	err := f.Deliver(context.Background(), msg(models.MessageTypeScheduleSummary, models.CategorySchedule, 1))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Deliver() error = %v, want broken sink error", err)
	}
	if strings.Join(calls, ",") != "first,broken,last" {
		t.Errorf("calls = %v", calls)
	}
	if got := f.Sinks(); len(got) != 3 {
		t.Errorf("Sinks() = %v", got)
	}
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	w := delivery.NewJSONLines(&buf, false)

	w.Deliver(context.Background(), msg(models.MessageTypeScheduleSummary, models.CategorySchedule, 1))
	w.Deliver(context.Background(), msg(models.MessageTypeError, models.CategoryDrivers, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	var decoded models.Message
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if decoded.Type != models.MessageTypeError || decoded.Category != models.CategoryDrivers {
		t.Errorf("decoded = %+v", decoded)
	}
}
