package utils

import (
	"math"
	"testing"
)

func TestHaversineIdentity(t *testing.T) {
	points := [][2]float64{{0, 0}, {12.97, 77.59}, {-45, 170}, {89.9, -179.9}}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Haversine(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{12.97, 77.59, 13.08, 80.27},
		{0, 0, 1, 1},
		{-33.86, 151.2, 51.5, -0.12},
	}
	for _, p := range pairs {
		ab := Haversine(p[0], p[1], p[2], p[3])
		ba := Haversine(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Haversine not symmetric: %v vs %v for %v", ab, ba, p)
		}
	}
}

func TestHaversineOneDegree(t *testing.T) {
	// One degree of longitude or latitude at the equator is ~111.19 km.
	if d := Haversine(0, 0, 0, 1); math.Abs(d-111.19) > 0.5 {
		t.Errorf("one degree longitude = %v km, want ~111.19", d)
	}
	if d := Haversine(0, 0, 1, 0); math.Abs(d-111.19) > 0.5 {
		t.Errorf("one degree latitude = %v km, want ~111.19", d)
	}
}

func TestHaversineTriangleInequality(t *testing.T) {
	a := [2]float64{12.97, 77.59}
	b := [2]float64{13.08, 80.27}
	c := [2]float64{11.0, 76.96}
	ab := Haversine(a[0], a[1], b[0], b[1])
	bc := Haversine(b[0], b[1], c[0], c[1])
	ac := Haversine(a[0], a[1], c[0], c[1])
	if ac > ab+bc+1e-9 {
		t.Errorf("triangle inequality violated: %v > %v + %v", ac, ab, bc)
	}
}

func TestLineDistance(t *testing.T) {
	if d := LineDistance(nil); d != 0 {
		t.Errorf("empty line distance = %v, want 0", d)
	}
	if d := LineDistance([][2]float64{{77.59, 12.97}}); d != 0 {
		t.Errorf("single point distance = %v, want 0", d)
	}
	// Two segments along the equator add up.
	d := LineDistance([][2]float64{{0, 0}, {1, 0}, {2, 0}})
	if math.Abs(d-2*Haversine(0, 0, 0, 1)) > 1e-9 {
		t.Errorf("line distance = %v, want %v", d, 2*Haversine(0, 0, 0, 1))
	}
}

func TestToWKTPolygon(t *testing.T) {
	open := [][2]float64{{0, 0}, {1, 0}, {1, 1}}
	got, err := ToWKTPolygon(open)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "POLYGON((0 0,1 0,1 1,0 0))"; got != want {
		t.Errorf("open ring: got %q, want %q", got, want)
	}

	closed := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	got, err = ToWKTPolygon(closed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "POLYGON((0 0,1 0,1 1,0 0))"; got != want {
		t.Errorf("closed ring duplicated: got %q, want %q", got, want)
	}
}

func TestToWKTPolygonDegenerate(t *testing.T) {
	cases := [][][2]float64{
		nil,
		{{0, 0}},
		{{0, 0}, {1, 1}},
		{{0, 0}, {1, 1}, {0, 0}}, // only two distinct vertices
	}
	for _, coords := range cases {
		if _, err := ToWKTPolygon(coords); err == nil {
			t.Errorf("expected error for %v", coords)
		}
	}
}

func TestBBoxPolygon(t *testing.T) {
	ring := BBoxPolygon(0, 0, 1, 1)
	if len(ring) != 5 {
		t.Fatalf("ring length = %d, want 5", len(ring))
	}
	if ring[0] != ring[4] {
		t.Errorf("ring not closed: %v vs %v", ring[0], ring[4])
	}
	want := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	for i := range want {
		if ring[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, ring[i], want[i])
		}
	}
}
