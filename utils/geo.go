package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const earthRadiusKm = 6371

// ErrDegeneratePolygon is returned when a coordinate list cannot form a
// polygon ring (fewer than three distinct vertices).
var ErrDegeneratePolygon = errors.New("polygon requires at least 3 distinct vertices")

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1, lng1 = lat1*math.Pi/180, lng1*math.Pi/180
	lat2, lng2 = lat2*math.Pi/180, lng2*math.Pi/180

	dlat := lat2 - lat1
	dlng := lng2 - lng1
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// LineDistance sums Haversine distances between consecutive vertices of an
// ordered [lng, lat] coordinate sequence. Fewer than two points is a zero
// length line, not an error.
func LineDistance(coords [][2]float64) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += Haversine(coords[i-1][1], coords[i-1][0], coords[i][1], coords[i][0])
	}
	return total
}

// ToWKTPolygon renders [lng, lat] coordinates as a WKT POLYGON, appending the
// first vertex when the ring is open. Closing compares vertices exactly: a
// ring open only by floating-point noise gets one extra closing vertex rather
// than having caller geometry silently rewritten.
func ToWKTPolygon(coords [][2]float64) (string, error) {
	distinct := make(map[[2]float64]struct{}, len(coords))
	for _, c := range coords {
		distinct[c] = struct{}{}
	}
	if len(distinct) < 3 {
		return "", ErrDegeneratePolygon
	}

	pairs := make([]string, 0, len(coords)+1)
	for _, c := range coords {
		pairs = append(pairs, fmt.Sprintf("%v %v", c[0], c[1]))
	}
	if coords[0] != coords[len(coords)-1] {
		pairs = append(pairs, pairs[0])
	}
	return "POLYGON((" + strings.Join(pairs, ",") + "))", nil
}

// BBoxPolygon expands a bounding box into its closed four-corner ring,
// starting and ending at (minLng, minLat).
func BBoxPolygon(minLng, minLat, maxLng, maxLat float64) [][2]float64 {
	return [][2]float64{
		{minLng, minLat},
		{maxLng, minLat},
		{maxLng, maxLat},
		{minLng, maxLat},
		{minLng, minLat},
	}
}
