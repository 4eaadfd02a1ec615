package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geogateway-backend/audit"
	"geogateway-backend/bhuvan"
	"geogateway-backend/config"
	"geogateway-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

// envelope mirrors ApiResponse with the error decoded for assertions.
type envelope struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// newTestApp builds a fiber app with the gateway routes backed by one
// httptest provider serving every Bhuvan URL. The audit recorder runs
// without a database and degrades to a no-op.
func newTestApp(t *testing.T, handler http.HandlerFunc, tokens map[string]string) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.BhuvanSettings{
		StatisticsURL: srv.URL,
		AOIURL:        srv.URL,
		GeoidURL:      srv.URL,
		RoutingURL:    srv.URL,
		ProximityURL:  srv.URL,
		GeocodeURL:    srv.URL,
		ReverseURL:    srv.URL,
		DefaultYear:   "1112",
		Tokens:        tokens,
	}
	ts := bhuvan.NewTokenSet(cfg)
	dataDir := t.TempDir()

	ctl := &BhuvanController{
		Thematic:  bhuvan.NewThematicClient(cfg, ts, dataDir, log),
		LULC:      bhuvan.NewLULCClient(cfg, ts, dataDir, log),
		Geoid:     bhuvan.NewGeoidClient(cfg, ts, dataDir, log),
		Router:    bhuvan.NewRoutingClient(cfg, ts, dataDir, log),
		Proximity: bhuvan.NewProximityClient(cfg, ts, dataDir, log),
		Geocode:   bhuvan.NewVillageGeocodeClient(cfg, ts, dataDir, log),
		Reverse:   bhuvan.NewVillageReverseClient(cfg, ts, dataDir, log),
		Audit:     audit.NewRecorder(log),
	}

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Post("/api/thematic_statistics", ctl.ThematicStatistics)
	app.Post("/api/lulc_aoi_statistics", ctl.LULCAOIStatistics)
	app.Post("/api/lulc_polygon_statistics", ctl.LULCPolygonStatistics)
	app.Post("/api/lulc_bounding_box_statistics", ctl.LULCBoundingBoxStatistics)
	app.Post("/api/geoid_elevation", ctl.GeoidElevation)
	app.Post("/api/routing", ctl.Routing)
	app.Post("/api/postal_hospital_proximity", ctl.PostalHospitalProximity)
	app.Post("/api/village_geocoding", ctl.VillageGeocoding)
	app.Post("/api/village_geocoding/batch", ctl.VillageGeocodingBatch)
	app.Post("/api/village_reverse_geocoding", ctl.VillageReverseGeocoding)
	app.Post("/api/village_reverse_geocoding/batch", ctl.VillageReverseGeocodingBatch)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return resp, env
}

func allTokens() map[string]string {
	return map[string]string{
		config.ServiceLULCStatistics:   "tok",
		config.ServiceLULCAOIWise:      "tok",
		config.ServicePostalHospital:   "tok",
		config.ServiceVillageGeocoding: "tok",
		config.ServiceVillageReverse:   "tok",
		config.ServiceRouting:          "tok",
		config.ServiceGeoid:            "tok",
	}
}

func TestThematicStatisticsDataEnvelope(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Builtup": "12.5"}`))
	}, allTokens())

	resp, env := postJSON(t, app, "/api/thematic_statistics",
		`{"coordinates": {"lat": 12.97, "lng": 77.59}, "details": {"distcode": "3201"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Data == nil || env.Error != nil {
		t.Errorf("envelope = %+v, want data set and error null", env)
	}
}

func TestThematicStatisticsErrorEnvelope(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no outbound call expected without a token")
	}, nil)

	resp, env := postJSON(t, app, "/api/thematic_statistics",
		`{"coordinates": {"lat": 12.97, "lng": 77.59}, "details": {"distcode": "3201"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Data != nil || env.Error == nil {
		t.Fatalf("envelope = %+v, want error set and data null", env)
	}
	if *env.Error != "No valid LULC statistics token available" {
		t.Errorf("error = %q", *env.Error)
	}
}

func TestThematicStatisticsValidation(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {}, allTokens())

	req := httptest.NewRequest(http.MethodPost, "/api/thematic_statistics",
		strings.NewReader(`{"coordinates": {"lng": 77.59}, "details": {"distcode": "3201"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 for missing lat", resp.StatusCode)
	}
}

func TestRoutingCrossRegionErrorEnvelope(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no outbound call expected for cross-region pair")
	}, allTokens())

	_, env := postJSON(t, app, "/api/routing",
		`{"start": {"lat": 28.61, "lng": 77.21}, "end": {"lat": 13.08, "lng": 80.27}}`)
	if env.Data != nil || env.Error == nil {
		t.Fatalf("envelope = %+v", env)
	}
	if !strings.Contains(*env.Error, "different states") {
		t.Errorf("error = %q", *env.Error)
	}
}

func TestRoutingDataEnvelope(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": [{"properties": {"distance": 50000}, "geometry": {"type": "LineString", "coordinates": [[77.59, 12.97], [76.65, 12.31]]}}]}`))
	}, allTokens())

	_, env := postJSON(t, app, "/api/routing",
		`{"start": {"lat": 12.97, "lng": 77.59}, "end": {"lat": 12.31, "lng": 76.65}}`)
	if env.Data == nil || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestGeoidAlwaysDataEnvelope(t *testing.T) {
	// No token: the geoid client degrades to simulated data instead of failing.
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	_, env := postJSON(t, app, "/api/geoid_elevation", `{"area_id": "area42"}`)
	if env.Data == nil || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["simulated"] != true {
		t.Errorf("data = %#v", env.Data)
	}
}

func TestBoundingBoxOrderCheck(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {}, allTokens())

	req := httptest.NewRequest(http.MethodPost, "/api/lulc_bounding_box_statistics",
		strings.NewReader(`{"min_lng": 78, "min_lat": 12, "max_lng": 77, "max_lat": 13}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for inverted box", resp.StatusCode)
	}
}

func TestVillageGeocodingBatchEnvelope(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": [{"properties": {"state": "Karnataka"}}]}`))
	}, allTokens())

	_, env := postJSON(t, app, "/api/village_geocoding/batch",
		`{"village_names": ["Hampapura", "Tenali"]}`)
	if env.Data == nil || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || len(data) != 2 {
		t.Errorf("data = %#v", env.Data)
	}
}

func TestPolygonStatisticsDegenerate(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no outbound call expected for degenerate polygon")
	}, allTokens())

	req := httptest.NewRequest(http.MethodPost, "/api/lulc_polygon_statistics",
		strings.NewReader(`{"coordinates_list": [[76, 12], [77, 12]]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	// Two vertices fail the min=3 validation before the client is reached.
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
