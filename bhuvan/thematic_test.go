package bhuvan

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geogateway-backend/config"
)

func newThematicTestClient(t *testing.T, handler http.HandlerFunc, token string) *ThematicClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.BhuvanSettings{
		StatisticsURL: srv.URL,
		Tokens:        map[string]string{config.ServiceLULCStatistics: token},
		DefaultYear:   "1112",
	}
	return NewThematicClient(cfg, NewTokenSet(cfg), t.TempDir(), testLogger())
}

func TestThematicStatisticsSuccess(t *testing.T) {
	var gotYear string
	client := newThematicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotYear = r.URL.Query().Get("year")
		w.Write([]byte(`{"Builtup": "12.5", "Cropland": "60.1"}`))
	}, "tok")

	result := client.GetStatistics(Coordinates{Lat: 12.97, Lng: 77.59}, ThematicDetails{Distcode: "3201"})
	if _, ok := result["error"]; ok {
		t.Fatalf("unexpected error: %v", result["error"])
	}
	stats, ok := result["lulc_statistics"].(map[string]any)
	if !ok {
		t.Fatalf("lulc_statistics missing or mistyped: %#v", result)
	}
	if stats["Builtup"] != "12.5" {
		t.Errorf("payload not passed through: %#v", stats)
	}
	if gotYear != "1112" {
		t.Errorf("default year not applied, got %q", gotYear)
	}
}

func TestThematicStatisticsNoToken(t *testing.T) {
	called := false
	client := newThematicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	result := client.GetStatistics(Coordinates{}, ThematicDetails{Distcode: "3201"})
	if result["error"] != "No valid LULC statistics token available" {
		t.Errorf("got %#v", result)
	}
	if called {
		t.Error("outbound call made despite missing token")
	}
}

func TestThematicStatisticsMissingDistcode(t *testing.T) {
	client := newThematicTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, "tok")
	result := client.GetStatistics(Coordinates{}, ThematicDetails{})
	if result["error"] != "Missing required parameter: distcode" {
		t.Errorf("got %#v", result)
	}
}

func TestThematicStatisticsValidationText(t *testing.T) {
	client := newThematicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Please verify your token for this theme"))
	}, "tok")

	result := client.GetStatistics(Coordinates{}, ThematicDetails{Distcode: "3201"})
	want := "API validation error: Please verify your token for this theme"
	if result["error"] != want {
		t.Errorf("got %#v, want %q", result["error"], want)
	}
}

func TestThematicStatisticsWrongContent(t *testing.T) {
	client := newThematicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>some long unrelated error page body without the magic words, padded out well past any plausible validation message length to exercise the other branch of the text classifier which treats it as opaque</html>"))
	}, "tok")

	result := client.GetStatistics(Coordinates{}, ThematicDetails{Distcode: "3201"})
	msg, _ := result["error"].(string)
	if !strings.HasPrefix(msg, "Invalid JSON response:") {
		t.Errorf("got %#v", result)
	}
}

func TestLoadCodeTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "districts.json")
	if err := os.WriteFile(path, []byte(`{"Mysuru": "3201"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	table := loadCodeTable(path, testLogger())
	if table["Mysuru"] != "3201" {
		t.Errorf("table = %#v", table)
	}

	// Missing file is an empty table, not a failure.
	if table := loadCodeTable(filepath.Join(dir, "absent.json"), testLogger()); len(table) != 0 {
		t.Errorf("missing file table = %#v", table)
	}
}
