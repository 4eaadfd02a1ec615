package bhuvan

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"geogateway-backend/config"
)

// ProximityClient talks to the Bhuvan postal/hospital proximity service:
// facilities near a location within a buffer in metres.
type ProximityClient struct {
	apiClient
	baseURL string
	tokens  *TokenSet
}

// ProximitySummary counts facilities found around the query point.
type ProximitySummary struct {
	TotalFacilities  int            `json:"total_facilities"`
	Hospitals        int            `json:"hospitals"`
	PostOffices      int            `json:"post_offices"`
	FacilitiesByType map[string]int `json:"facilities_by_type"`
}

// ProximityResult is the shaped outcome of one proximity query.
type ProximityResult struct {
	Timestamp     string           `json:"timestamp"`
	Coordinates   Coordinates      `json:"coordinates"`
	Theme         string           `json:"theme"`
	BufferMeters  int              `json:"buffer_meters"`
	ProximityData any              `json:"proximity_data"`
	Summary       ProximitySummary `json:"summary"`
}

func NewProximityClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *ProximityClient {
	return &ProximityClient{
		apiClient: newAPIClient(30*time.Second, dataDir, log),
		baseURL:   cfg.ProximityURL,
		tokens:    tokens,
	}
}

// GetProximityData fetches hospitals and post offices near a location.
// Theme is "hospital", "postal" or "all"; buffer is in metres.
func (c *ProximityClient) GetProximityData(coords Coordinates, theme string, buffer int) (*ProximityResult, error) {
	if theme == "" {
		theme = "all"
	}
	if buffer == 0 {
		buffer = 3000
	}
	c.log.Info("fetching proximity data", "theme", theme, "coords", coords, "buffer_m", buffer)

	token, err := c.tokens.Get(config.ServicePostalHospital)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"lat":    {formatCoord(coords.Lat)},
		"lon":    {formatCoord(coords.Lng)},
		"buffer": {strconv.Itoa(buffer)},
		"theme":  {theme},
		"token":  {token},
	}
	raw, err := c.getJSON(c.baseURL, params)
	if err != nil {
		return nil, err
	}

	result := shapeProximity(raw, coords, theme, buffer)
	c.saveArtifact(fmt.Sprintf("proximity_%s_%v_%v_buffer%d", theme, coords.Lat, coords.Lng, buffer), result)
	return result, nil
}

// GetHospitals fetches hospital proximity data specifically.
func (c *ProximityClient) GetHospitals(coords Coordinates, buffer int) (*ProximityResult, error) {
	return c.GetProximityData(coords, "hospital", buffer)
}

// GetPostOffices fetches post office proximity data specifically.
func (c *ProximityClient) GetPostOffices(coords Coordinates, buffer int) (*ProximityResult, error) {
	return c.GetProximityData(coords, "postal", buffer)
}

func shapeProximity(raw any, coords Coordinates, theme string, buffer int) *ProximityResult {
	result := &ProximityResult{
		Timestamp:     time.Now().Format(time.RFC3339),
		Coordinates:   coords,
		Theme:         theme,
		BufferMeters:  buffer,
		ProximityData: raw,
		Summary:       ProximitySummary{FacilitiesByType: map[string]int{}},
	}

	data := asMap(raw)
	if data == nil {
		return result
	}
	features := asSlice(data["features"])
	result.Summary.TotalFacilities = len(features)
	for _, f := range features {
		props := asMap(asMap(f)["properties"])
		if props == nil {
			continue
		}
		facilityType := getString(props, "type")
		if facilityType == "" {
			facilityType = "unknown"
		}
		result.Summary.FacilitiesByType[facilityType]++

		lower := strings.ToLower(facilityType)
		switch {
		case strings.Contains(lower, "hospital"):
			result.Summary.Hospitals++
		case strings.Contains(lower, "post"):
			result.Summary.PostOffices++
		}
	}
	return result
}
