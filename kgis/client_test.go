package kgis

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geogateway-backend/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.KGISSettings{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAdminHierarchyNormalizesEmptyStrings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/kgisadminhierarchy") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"districtName": "Mysuru", "districtCode": "", "talukName": "Hunsur"}]`))
	})

	out, err := client.AdminHierarchy(AdminHierarchyRequest{DeptCode: 1, ApplnCode: 2, Code: 3, Type: "village"})
	if err != nil {
		t.Fatal(err)
	}
	if out.DistrictName == nil || *out.DistrictName != "Mysuru" {
		t.Errorf("DistrictName = %v", out.DistrictName)
	}
	// Provider empty strings mean "absent".
	if out.DistrictCode != nil {
		t.Errorf("DistrictCode = %q, want nil", *out.DistrictCode)
	}
	if out.TalukName == nil || *out.TalukName != "Hunsur" {
		t.Errorf("TalukName = %v", out.TalukName)
	}
}

func TestDistrictNameMessageFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"districtCode": "", "message": "22"}]`))
	})

	out, err := client.DistrictName(DistrictNameRequest{DistrictName: "Mysuru"})
	if err != nil {
		t.Fatal(err)
	}
	if out.DistrictCode == nil || *out.DistrictCode != "22" {
		t.Errorf("DistrictCode = %v, want message fallback", out.DistrictCode)
	}
}

func TestCallEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.TalukCode(TalukCodeRequest{TalukName: "Hunsur"})
	if err == nil || !strings.HasPrefix(err.Error(), "Unexpected error:") {
		t.Errorf("err = %v", err)
	}
}

func TestCallBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.HobliCode(HobliCodeRequest{HobliName: "Bilikere"})
	if err == nil || !strings.HasPrefix(err.Error(), "Request failed:") {
		t.Errorf("err = %v", err)
	}
}

func TestPinCodeDistance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pincodes"); got != "560001,570001" {
			t.Errorf("pincodes = %q", got)
		}
		w.Write([]byte(`[{"keymsg": "success", "distance": "128.4"}]`))
	})

	out, err := client.PinCodeDistance(PinCodeDistanceRequest{Pincodes: "560001,570001"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Distance == nil || *out.Distance != "128.4" {
		t.Errorf("Distance = %v", out.Distance)
	}
}

func TestGeomForSurveyNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geomForSurveyNum/123/45/LL" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"message": "success", "geom": "POLYGON((76 12,77 12,77 13,76 12))"}]`))
	})

	out := client.GeomForSurveyNumber(GeometricPolygonRequest{VillageID: 123, SurveyNo: 45, CoordType: "LL"})
	if len(out.Polygons) != 1 || out.Polygons[0].Geom == "" {
		t.Errorf("out = %+v", out)
	}
}

func TestGeomForSurveyNumberFailureIsEmpty(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		out := client.GeomForSurveyNumber(GeometricPolygonRequest{VillageID: 1, SurveyNo: 2, CoordType: "LL"})
		if out == nil || out.Polygons == nil || len(out.Polygons) != 0 {
			t.Errorf("out = %+v", out)
		}
	})

	t.Run("unparsable body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		out := client.GeomForSurveyNumber(GeometricPolygonRequest{VillageID: 1, SurveyNo: 2, CoordType: "LL"})
		if len(out.Polygons) != 0 {
			t.Errorf("out = %+v", out)
		}
	})
}
