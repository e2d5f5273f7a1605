package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/config"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment variables
	os.Clearenv()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default server addr ':8080', got '%s'", cfg.Server.Addr)
	}

	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Expected default CORS origins [*], got %v", cfg.Server.CORSOrigins)
	}

	if cfg.Redis.URL != "" || cfg.Database.URL != "" {
		t.Errorf("Expected Redis and Postgres disabled by default, got %q and %q", cfg.Redis.URL, cfg.Database.URL)
	}

	if cfg.Upstream.BaseURL != "https://api.jolpi.ca/ergast/f1" {
		t.Errorf("Expected default base URL, got '%s'", cfg.Upstream.BaseURL)
	}

	if !cfg.Upstream.Season.IsCurrent() {
		t.Errorf("Expected current season, got %s", cfg.Upstream.Season)
	}

	if cfg.Upstream.UpdateInterval != 24*time.Hour {
		t.Errorf("Expected 24h update interval, got %s", cfg.Upstream.UpdateInterval)
	}

	if cfg.Upstream.RequestTimeout != 15*time.Second {
		t.Errorf("Expected 15s request timeout, got %s", cfg.Upstream.RequestTimeout)
	}

	if cfg.Display.Mode != models.DisplayBoth {
		t.Errorf("Expected display mode both, got %s", cfg.Display.Mode)
	}

	if cfg.Display.Drivers.MaxDisplayed != 8 || len(cfg.Display.Drivers.Favorites) != 0 {
		t.Errorf("Expected 8 drivers and no favorites, got %+v", cfg.Display.Drivers)
	}

	if cfg.Display.Constructors.MaxDisplayed != 0 {
		t.Errorf("Expected unbounded constructors, got %d", cfg.Display.Constructors.MaxDisplayed)
	}

	if cfg.Stream.Name != "f1.updates" || cfg.Stream.ConsumerGroup != "f1-watch" {
		t.Errorf("Expected default stream settings, got %+v", cfg.Stream)
	}

	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:3001")
	t.Setenv("REDIS_URL", "redis://localhost:6380")
	t.Setenv("F1_API_BASE_URL", "http://ergast.local/api/f1/")
	t.Setenv("F1_SEASON", "2021")
	t.Setenv("UPDATE_INTERVAL_MS", "60000")
	t.Setenv("REQUEST_TIMEOUT_MS", "2500")
	t.Setenv("SHOW_STANDINGS", "Constructor")
	t.Setenv("MAX_DRIVERS", "5")
	t.Setenv("MAX_CONSTRUCTORS", "4")
	t.Setenv("MAX_SCHEDULE_ROWS", "6")
	t.Setenv("FOCUS_ON_DRIVERS", "HAM, ,VER,HAM")
	t.Setenv("FOCUS_ON_CONSTRUCTORS", "Williams")
	t.Setenv("FOCUS_ON_GP", " monaco ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected server addr ':9090', got '%s'", cfg.Server.Addr)
	}

	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://localhost:3001" {
		t.Errorf("Expected 2 CORS origins, got %v", cfg.Server.CORSOrigins)
	}

	if cfg.Upstream.BaseURL != "http://ergast.local/api/f1" {
		t.Errorf("Expected trailing slash trimmed, got '%s'", cfg.Upstream.BaseURL)
	}

	if cfg.Upstream.Season.Year != 2021 {
		t.Errorf("Expected season 2021, got %s", cfg.Upstream.Season)
	}

	if cfg.Upstream.UpdateInterval != time.Minute || cfg.Upstream.RequestTimeout != 2500*time.Millisecond {
		t.Errorf("Expected 1m interval and 2.5s timeout, got %s and %s", cfg.Upstream.UpdateInterval, cfg.Upstream.RequestTimeout)
	}

	if cfg.Display.Mode != models.DisplayConstructorOnly {
		t.Errorf("Expected constructor mode, got %s", cfg.Display.Mode)
	}

	favorites := cfg.Display.Drivers.Favorites
	if len(favorites) != 2 || favorites[0] != "HAM" || favorites[1] != "VER" {
		t.Errorf("Expected favorites [HAM VER], got %v", favorites)
	}

	if cfg.Display.Drivers.MaxDisplayed != 5 || cfg.Display.Constructors.MaxDisplayed != 4 || cfg.Display.MaxScheduleRows != 6 {
		t.Errorf("Expected limits 5/4/6, got %d/%d/%d",
			cfg.Display.Drivers.MaxDisplayed, cfg.Display.Constructors.MaxDisplayed, cfg.Display.MaxScheduleRows)
	}

	if !cfg.Display.Constructors.IsFavorite("Williams") {
		t.Error("Expected Williams to be a favorite constructor")
	}

	if cfg.Display.FocusGP != "monaco" {
		t.Errorf("Expected focus GP 'monaco', got '%s'", cfg.Display.FocusGP)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"F1_SEASON", "last"},
		{"F1_SEASON", "1949"},
		{"SHOW_STANDINGS", "teams"},
		{"MAX_DRIVERS", "eight"},
		{"MAX_CONSTRUCTORS", "-1"},
		{"UPDATE_INTERVAL_MS", "0"},
		{"REQUEST_TIMEOUT_MS", "soon"},
		{"LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
