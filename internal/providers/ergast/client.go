package ergast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

const (
	BaseURL = "https://api.jolpi.ca/ergast/f1"

	DefaultTimeout = 15 * time.Second
)

// ErrSchema is returned when a 200 response lacks the expected structure
var ErrSchema = errors.New("unexpected payload structure")

// StatusError is returned for any non-200 response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ergast API error: status=%d, body=%s", e.StatusCode, e.Body)
}

// Client handles Ergast API requests
type Client struct {
	http *resty.Client
}

// Option configures a Client
type Option func(c *Client)

// WithBaseURL points the client at another Ergast-compatible server
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// New creates a new Ergast API client
func New(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(BaseURL).
			SetTimeout(DefaultTimeout).
			SetHeaders(map[string]string{
				"Accept":     "application/json",
				"User-Agent": "Mozilla/5.0 (compatible; FortunaF1/1.0)",
			}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SchedulePath is the race calendar endpoint for a season
func SchedulePath(season int) string {
	return fmt.Sprintf("/%d.json", season)
}

// DriverStandingsPath is the driver standings endpoint for a season
func DriverStandingsPath(season int) string {
	return fmt.Sprintf("/%d/driverStandings.json", season)
}

// ConstructorStandingsPath is the constructor standings endpoint for a season
func ConstructorStandingsPath(season int) string {
	return fmt.Sprintf("/%d/constructorStandings.json", season)
}

// Fetch makes a GET request for path and returns the decoded JSON object
func (c *Client) Fetch(ctx context.Context, path string) (map[string]interface{}, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), maxErrorBody)}
	}

	var result map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("decoding response: %w: empty body", ErrSchema)
	}

	return result, nil
}

const maxErrorBody = 256

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
