package ergast_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{ergast.SchedulePath(2024), "/2024.json"},
		{ergast.DriverStandingsPath(2024), "/2024/driverStandings.json"},
		{ergast.ConstructorStandingsPath(2023), "/2023/constructorStandings.json"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %s, want %s", tt.got, tt.want)
		}
	}
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"MRData":{"total":"2"}}`))
	}))
	defer server.Close()

	client := ergast.New(ergast.WithBaseURL(server.URL))

	payload, err := client.Fetch(context.Background(), ergast.SchedulePath(2024))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/2024.json" {
		t.Errorf("request path = %s, want /2024.json", gotPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %s, want application/json", gotAccept)
	}
	if _, ok := payload["MRData"]; !ok {
		t.Error("expected MRData in payload")
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantSchema bool
	}{
		{"server error", http.StatusInternalServerError, "boom", 500, false},
		{"rate limited", http.StatusTooManyRequests, "", 429, false},
		{"malformed json", http.StatusOK, "{not json", 0, false},
		{"null body", http.StatusOK, "null", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := ergast.New(ergast.WithBaseURL(server.URL))
			_, err := client.Fetch(context.Background(), "/2024.json")
			if err == nil {
				t.Fatal("expected error")
			}

			var statusErr *ergast.StatusError
			if tt.wantStatus != 0 {
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.wantStatus {
					t.Errorf("error = %v, want status %d", err, tt.wantStatus)
				}
			}
			if errors.Is(err, ergast.ErrSchema) != tt.wantSchema {
				t.Errorf("errors.Is(err, ErrSchema) = %v, want %v", !tt.wantSchema, tt.wantSchema)
			}
		})
	}
}

func TestClient_Fetch_ErrorBodyKeepsRunesWhole(t *testing.T) {
	// the 256-byte cut falls inside the two-byte "é"
	body := strings.Repeat("a", 255) + strings.Repeat("é", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(body))
	}))
	defer server.Close()

	_, err := ergast.New(ergast.WithBaseURL(server.URL)).Fetch(context.Background(), "/2024.json")

	var statusErr *ergast.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want StatusError", err)
	}
	if !utf8.ValidString(statusErr.Body) {
		t.Errorf("Body is not valid UTF-8: %q", statusErr.Body)
	}
	if statusErr.Body != strings.Repeat("a", 255) {
		t.Errorf("Body = %q (%d bytes), want the 255 leading bytes", statusErr.Body, len(statusErr.Body))
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := ergast.New(ergast.WithBaseURL(server.URL), ergast.WithTimeout(20*time.Millisecond))
	if _, err := client.Fetch(context.Background(), "/2024.json"); err == nil {
		t.Error("expected timeout error")
	}
}

func TestExtractStandings(t *testing.T) {
	payload := map[string]interface{}{
		"MRData": map[string]interface{}{
			"StandingsTable": map[string]interface{}{
				"season": "2024",
				"StandingsLists": []interface{}{
					map[string]interface{}{
						"season":          "2024",
						"round":           "5",
						"DriverStandings": []interface{}{map[string]interface{}{"position": "1"}},
					},
				},
			},
		},
	}

	list, err := ergast.ExtractStandings(payload, "DriverStandings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Season != 2024 || list.Round != 5 || len(list.Entries) != 1 {
		t.Errorf("ExtractStandings() = %+v", list)
	}

	if _, err := ergast.ExtractStandings(payload, "ConstructorStandings"); !errors.Is(err, ergast.ErrSchema) {
		t.Errorf("wrong list key error = %v, want ErrSchema", err)
	}
}

func TestExtractStandings_EmptyAndMissing(t *testing.T) {
	empty := map[string]interface{}{
		"MRData": map[string]interface{}{
			"StandingsTable": map[string]interface{}{"season": "2025", "StandingsLists": []interface{}{}},
		},
	}
	list, err := ergast.ExtractStandings(empty, "DriverStandings")
	if err != nil {
		t.Fatalf("unexpected error for empty lists: %v", err)
	}
	if len(list.Entries) != 0 || list.Season != 2025 {
		t.Errorf("ExtractStandings(empty) = %+v", list)
	}

	missing := map[string]interface{}{
		"MRData": map[string]interface{}{"StandingsTable": map[string]interface{}{}},
	}
	if _, err := ergast.ExtractStandings(missing, "DriverStandings"); !errors.Is(err, ergast.ErrSchema) {
		t.Errorf("missing lists error = %v, want ErrSchema", err)
	}
}

func TestExtractRaceTable(t *testing.T) {
	payload := map[string]interface{}{
		"MRData": map[string]interface{}{
			"total": "24",
			"RaceTable": map[string]interface{}{
				"season": "2024",
				"Races":  []interface{}{map[string]interface{}{}, map[string]interface{}{}},
			},
		},
	}

	table, err := ergast.ExtractRaceTable(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Season != 2024 || table.Total != 24 || len(table.Races) != 2 {
		t.Errorf("ExtractRaceTable() = %+v", table)
	}

	if _, err := ergast.ExtractRaceTable(map[string]interface{}{}); !errors.Is(err, ergast.ErrSchema) {
		t.Errorf("missing MRData error = %v, want ErrSchema", err)
	}
}
