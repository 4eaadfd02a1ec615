package bhuvan

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"geogateway-backend/config"
	"geogateway-backend/utils"
)

func newLULCTestClient(t *testing.T, handler http.HandlerFunc) *LULCClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.BhuvanSettings{
		AOIURL: srv.URL,
		Tokens: map[string]string{config.ServiceLULCAOIWise: "tok"},
	}
	return NewLULCClient(cfg, NewTokenSet(cfg), t.TempDir(), testLogger())
}

func TestShapeAOIStatisticsFeatures(t *testing.T) {
	raw := map[string]any{
		"features": []any{
			map[string]any{"properties": map[string]any{
				"lulc_code": "01", "lulc_name": "Builtup", "area": 25.0, "state": "Karnataka",
			}},
			map[string]any{"properties": map[string]any{
				"class_code": "02", "class_name": "Cropland", "area": 75.0, "state": "Karnataka",
			}},
			map[string]any{"properties": map[string]any{
				"lulc_code": "03", "lulc_name": "Empty", "area": 0.0, "state": "Kerala",
			}},
		},
	}

	result := shapeAOIStatistics(raw, "POLYGON((0 0,1 0,1 1,0 0))")
	s := result.Summary

	if s.TotalArea != 100 {
		t.Errorf("TotalArea = %v, want 100", s.TotalArea)
	}
	if len(s.LULCClasses) != 2 {
		t.Errorf("LULCClasses = %#v, want 2 entries", s.LULCClasses)
	}
	if s.LULCClasses["02"].Name != "Cropland" {
		t.Errorf("alternate key names not handled: %#v", s.LULCClasses["02"])
	}
	// Zero-area feature still contributes its state.
	if len(s.StatesCovered) != 2 {
		t.Errorf("StatesCovered = %v", s.StatesCovered)
	}
	if s.DominantClass == nil {
		t.Fatal("DominantClass nil")
	}
	if s.DominantClass.Code != "02" || math.Abs(s.DominantClass.Percentage-75) > 1e-9 {
		t.Errorf("DominantClass = %+v", s.DominantClass)
	}
}

func TestShapeAOIStatisticsFlatList(t *testing.T) {
	raw := map[string]any{
		"lulc_statistics": []any{
			map[string]any{"code": "05", "name": "Forest", "area": 10.0},
			map[string]any{"code": "06", "name": "Wasteland", "area": 30.0},
			map[string]any{"name": "no code, skipped", "area": 99.0},
		},
	}

	result := shapeAOIStatistics(raw, "wkt")
	s := result.Summary
	if s.TotalArea != 40 {
		t.Errorf("TotalArea = %v, want 40", s.TotalArea)
	}
	if s.DominantClass == nil || s.DominantClass.Code != "06" {
		t.Errorf("DominantClass = %+v", s.DominantClass)
	}
}

func TestShapeAOIStatisticsZeroTotal(t *testing.T) {
	raw := map[string]any{
		"lulc_statistics": []any{
			map[string]any{"code": "01", "name": "Builtup", "area": 0.0},
		},
	}
	s := shapeAOIStatistics(raw, "wkt").Summary
	if s.DominantClass == nil {
		t.Fatal("DominantClass nil")
	}
	if s.DominantClass.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0 when total area is 0", s.DominantClass.Percentage)
	}
}

func TestShapeAOIStatisticsMalformed(t *testing.T) {
	result := shapeAOIStatistics("just a string", "wkt")
	s := result.Summary
	if s.LULCClasses == nil || s.StatesCovered == nil {
		t.Error("summary collections must be non-nil for malformed input")
	}
	if s.TotalArea != 0 || s.DominantClass != nil {
		t.Errorf("summary = %+v, want empty", s)
	}
}

func TestGetPolygonStatisticsDegenerate(t *testing.T) {
	called := false
	client := newLULCTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.GetPolygonStatistics([][2]float64{{0, 0}, {1, 1}})
	if !errors.Is(err, utils.ErrDegeneratePolygon) {
		t.Fatalf("expected ErrDegeneratePolygon, got %v", err)
	}
	if called {
		t.Error("outbound call made for degenerate polygon")
	}
}

func TestGetBoundingBoxStatistics(t *testing.T) {
	var gotGeom string
	client := newLULCTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotGeom = r.URL.Query().Get("geom")
		w.Write([]byte(`{"features": []}`))
	})

	result, err := client.GetBoundingBoxStatistics(76, 12, 77, 13)
	if err != nil {
		t.Fatal(err)
	}
	want := "POLYGON((76 12,77 12,77 13,76 13,76 12))"
	if gotGeom != want {
		t.Errorf("geom param = %q, want %q", gotGeom, want)
	}
	if result.GeometryWKT != want {
		t.Errorf("GeometryWKT = %q", result.GeometryWKT)
	}
}
