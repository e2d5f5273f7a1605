package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
	"github.com/fortuna/services/f1-standings-service/internal/publisher"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// ServerConfig holds read API configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// RedisConfig holds Redis connection configuration. An empty URL disables the Redis sinks.
type RedisConfig struct {
	URL string
}

// DatabaseConfig holds Postgres configuration. An empty URL disables the delivery audit log.
type DatabaseConfig struct {
	URL string
}

// StreamConfig names the Redis stream messages are published to and read back from
type StreamConfig struct {
	Name          string
	ConsumerGroup string
	ConsumerID    string
}

// UpstreamConfig controls fetching
type UpstreamConfig struct {
	BaseURL        string
	Season         models.Season
	UpdateInterval time.Duration
	RequestTimeout time.Duration
}

// DisplayConfig controls what is shown and how much of it
type DisplayConfig struct {
	Mode            models.DisplayMode
	Drivers         models.FocusConfig
	Constructors    models.FocusConfig
	MaxScheduleRows int
	FocusGP         string
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Stream   StreamConfig
	Upstream UpstreamConfig
	Display  DisplayConfig
	LogLevel slog.Level
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	upstream, err := loadUpstreamConfig()
	if err != nil {
		return nil, err
	}

	display, err := loadDisplayConfig()
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Stream: StreamConfig{
			Name:          getEnv("STREAM_NAME", publisher.DefaultStream),
			ConsumerGroup: getEnv("CONSUMER_GROUP", "f1-watch"),
			ConsumerID:    getEnv("CONSUMER_ID", "watch-1"),
		},
		Upstream: upstream,
		Display:  display,
		LogLevel: level,
	}, nil
}

func loadUpstreamConfig() (UpstreamConfig, error) {
	season, err := models.ParseSeason(getEnv("F1_SEASON", "current"))
	if err != nil {
		return UpstreamConfig{}, fmt.Errorf("F1_SEASON: %w", err)
	}

	interval, err := getEnvMillis("UPDATE_INTERVAL_MS", 24*time.Hour)
	if err != nil {
		return UpstreamConfig{}, err
	}

	timeout, err := getEnvMillis("REQUEST_TIMEOUT_MS", ergast.DefaultTimeout)
	if err != nil {
		return UpstreamConfig{}, err
	}

	return UpstreamConfig{
		BaseURL:        strings.TrimRight(getEnv("F1_API_BASE_URL", ergast.BaseURL), "/"),
		Season:         season,
		UpdateInterval: interval,
		RequestTimeout: timeout,
	}, nil
}

func loadDisplayConfig() (DisplayConfig, error) {
	mode, err := models.ParseDisplayMode(getEnv("SHOW_STANDINGS", "both"))
	if err != nil {
		return DisplayConfig{}, fmt.Errorf("SHOW_STANDINGS: %w", err)
	}

	maxDrivers, err := getEnvInt("MAX_DRIVERS", 8)
	if err != nil {
		return DisplayConfig{}, err
	}

	maxConstructors, err := getEnvInt("MAX_CONSTRUCTORS", 0)
	if err != nil {
		return DisplayConfig{}, err
	}

	maxRows, err := getEnvInt("MAX_SCHEDULE_ROWS", 0)
	if err != nil {
		return DisplayConfig{}, err
	}

	return DisplayConfig{
		Mode:            mode,
		Drivers:         models.NewFocusConfig(maxDrivers, splitList(getEnv("FOCUS_ON_DRIVERS", ""))...),
		Constructors:    models.NewFocusConfig(maxConstructors, splitList(getEnv("FOCUS_ON_CONSTRUCTORS", ""))...),
		MaxScheduleRows: maxRows,
		FocusGP:         strings.TrimSpace(getEnv("FOCUS_ON_GP", "")),
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses a non-negative integer variable
func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative integer %q", key, raw)
	}
	return n, nil
}

// getEnvMillis parses a positive millisecond duration variable
func getEnvMillis(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%s: invalid positive millisecond value %q", key, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// splitList splits a comma-separated value, dropping empty items
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
