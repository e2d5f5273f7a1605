package registry_test

import (
	"testing"

	"github.com/fortuna/services/f1-standings-service/internal/registry"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

func TestRegistry_Enabled(t *testing.T) {
	reg := registry.New(registry.Options{})

	tests := []struct {
		mode models.DisplayMode
		want []models.Category
	}{
		{models.DisplayBoth, []models.Category{models.CategorySchedule, models.CategoryDrivers, models.CategoryConstructors}},
		{models.DisplayDriverOnly, []models.Category{models.CategorySchedule, models.CategoryDrivers}},
		{models.DisplayConstructorOnly, []models.Category{models.CategorySchedule, models.CategoryConstructors}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			enabled := reg.Enabled(tt.mode)
			if len(enabled) != len(tt.want) {
				t.Fatalf("Enabled() returned %d modules, want %d", len(enabled), len(tt.want))
			}
			for i, m := range enabled {
				if m.GetCategory() != tt.want[i] {
					t.Errorf("Enabled()[%d] = %s, want %s", i, m.GetCategory(), tt.want[i])
				}
			}
		})
	}
}

func TestRegistry_GetModule(t *testing.T) {
	reg := registry.New(registry.Options{})

	module, err := reg.GetModule(models.CategoryDrivers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module.GetMessageType() != models.MessageTypeDriverStandings {
		t.Errorf("GetMessageType() = %s", module.GetMessageType())
	}

	if _, err := reg.GetModule("qualifying"); err == nil {
		t.Error("Expected error for unknown category")
	}
}
