package bhuvan

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"geogateway-backend/config"
	"geogateway-backend/utils"
)

// RoutingClient talks to the Bhuvan state routing service. Like the thematic
// client it never returns an error value: every failure mode is a
// RouteResult with the error fields populated.
type RoutingClient struct {
	apiClient
	baseURL string
	tokens  *TokenSet
}

// RouteSummary carries the normalized route fields. All fields are always
// present regardless of the provider response shape.
type RouteSummary struct {
	DistanceKm               float64 `json:"distance_km"`
	EstimatedDurationMinutes float64 `json:"estimated_duration_minutes"`
	RouteFound               bool    `json:"route_found"`
	TotalSegments            int     `json:"total_segments"`
	StartPoint               *LngLat `json:"start_point"`
	EndPoint                 *LngLat `json:"end_point"`
	Error                    string  `json:"error,omitempty"`
}

// RouteResult is the shaped outcome of one routing query.
type RouteResult struct {
	Timestamp   string       `json:"timestamp"`
	Origin      Coordinates  `json:"origin"`
	Destination Coordinates  `json:"destination"`
	Error       string       `json:"error,omitempty"`
	RouteData   any          `json:"route_data"`
	Summary     RouteSummary `json:"summary"`
}

// Approximate state bounding boxes for the same-region pre-flight check.
// These are heuristic substitutes for authoritative boundary data; they
// overlap and will produce occasional false accepts/rejects.
type regionBox struct {
	name           string
	minLat, maxLat float64
	minLng, maxLng float64
}

var regionBoxes = []regionBox{
	{"karnataka", 11.5, 18.5, 74, 78.5},
	{"andhra_telangana", 12.5, 19.5, 77, 85},
	{"tamil_nadu", 8, 13.5, 76.5, 80.5},
	{"kerala", 8, 12.5, 74.5, 77.5},
}

// Average road speed assumed when estimating route duration.
const avgSpeedKmh = 40

func NewRoutingClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *RoutingClient {
	return &RoutingClient{
		apiClient: newAPIClient(60*time.Second, dataDir, log),
		baseURL:   cfg.RoutingURL,
		tokens:    tokens,
	}
}

// GetRoute fetches the shortest path between two coordinates. Cross-region
// pairs are rejected locally before any outbound call.
func (c *RoutingClient) GetRoute(start, end Coordinates) *RouteResult {
	c.log.Info("fetching route", "start", start, "end", end)

	token, err := c.tokens.Get(config.ServiceRouting)
	if err != nil {
		c.log.Warn("routing token not configured")
		return errorRoute(start, end, "Routing API token not configured")
	}

	if !sameRegion(start, end) {
		msg := "Coordinates appear to be in different states. Bhuvan routing API requires coordinates within the same state."
		c.log.Warn("routing pre-flight rejected", "start", start, "end", end)
		return errorRoute(start, end, msg)
	}

	params := url.Values{
		"lat1":  {formatCoord(start.Lat)},
		"lon1":  {formatCoord(start.Lng)},
		"lat2":  {formatCoord(end.Lat)},
		"lon2":  {formatCoord(end.Lng)},
		"token": {token},
	}

	parsed, text, err := c.getClassified(c.baseURL, params)
	if err != nil {
		return errorRoute(start, end, err.Error())
	}
	if parsed == nil {
		return errorRoute(start, end, "API error: "+truncate(text, 200))
	}

	result := shapeRoute(parsed, start, end)
	c.saveArtifact(fmt.Sprintf("route_%v_%v_to_%v_%v", start.Lat, start.Lng, end.Lat, end.Lng), result)
	return result
}

// sameRegion applies the heuristic same-state check: close enough overall,
// or both endpoints inside one of the known state boxes, or under 500 km.
func sameRegion(a, b Coordinates) bool {
	distance := utils.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	if distance > 1000 {
		return false
	}
	for _, box := range regionBoxes {
		if box.contains(a) && box.contains(b) {
			return true
		}
	}
	return distance < 500
}

func (b regionBox) contains(p Coordinates) bool {
	return p.Lat >= b.minLat && p.Lat <= b.maxLat && p.Lng >= b.minLng && p.Lng <= b.maxLng
}

func errorRoute(start, end Coordinates, message string) *RouteResult {
	return &RouteResult{
		Timestamp:   time.Now().Format(time.RFC3339),
		Origin:      start,
		Destination: end,
		Error:       message,
		Summary:     RouteSummary{Error: message},
	}
}

// shapeRoute extracts the summary from a GeoJSON response. Feature
// collections carry per-segment distance properties; a bare LineString falls
// back to Haversine over its vertices.
func shapeRoute(raw any, start, end Coordinates) *RouteResult {
	result := &RouteResult{
		Timestamp:   time.Now().Format(time.RFC3339),
		Origin:      start,
		Destination: end,
		RouteData:   raw,
	}

	data := asMap(raw)
	if data == nil {
		return result
	}

	if features := asSlice(data["features"]); len(features) > 0 {
		result.Summary.RouteFound = true

		var totalDistance float64
		for _, f := range features {
			feature := asMap(f)
			result.Summary.TotalSegments++

			if props := asMap(feature["properties"]); props != nil {
				totalDistance += getFloat(props, "distance", "length")
			}

			geom := asMap(feature["geometry"])
			coords := asSlice(geom["coordinates"])
			if len(coords) == 0 {
				continue
			}
			var first, last *LngLat
			if getString(geom, "type") == "MultiLineString" {
				if line := asSlice(coords[0]); len(line) > 0 {
					first = pointFromPair(line[0])
				}
				if line := asSlice(coords[len(coords)-1]); len(line) > 0 {
					last = pointFromPair(line[len(line)-1])
				}
			} else {
				first = pointFromPair(coords[0])
				last = pointFromPair(coords[len(coords)-1])
			}
			if first != nil && result.Summary.StartPoint == nil {
				result.Summary.StartPoint = first
			}
			if last != nil {
				result.Summary.EndPoint = last
			}
		}

		// Provider distances are sometimes metres, sometimes km; large
		// values are assumed metres.
		if totalDistance > 1000 {
			result.Summary.DistanceKm = totalDistance / 1000
		} else {
			result.Summary.DistanceKm = totalDistance
		}
		if totalDistance > 0 {
			result.Summary.EstimatedDurationMinutes = (totalDistance / 1000) * (60.0 / avgSpeedKmh)
		}
		return result
	}

	if getString(data, "type") == "LineString" {
		coords := asSlice(data["coordinates"])
		if len(coords) > 0 {
			result.Summary.RouteFound = true
			result.Summary.StartPoint = pointFromPair(coords[0])
			result.Summary.EndPoint = pointFromPair(coords[len(coords)-1])

			line := make([][2]float64, 0, len(coords))
			for _, pair := range coords {
				if p := pointFromPair(pair); p != nil {
					line = append(line, [2]float64{p.Lng, p.Lat})
				}
			}
			distance := utils.LineDistance(line)
			result.Summary.DistanceKm = distance
			result.Summary.EstimatedDurationMinutes = distance * (60.0 / avgSpeedKmh)
		}
	}
	return result
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
