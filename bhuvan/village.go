package bhuvan

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"geogateway-backend/config"
)

// Census year of the underlying village dataset.
const censusYear = "2001"

// VillageGeocodeClient looks up village census records by name (Andhra
// Pradesh and Karnataka coverage).
type VillageGeocodeClient struct {
	apiClient
	baseURL string
	tokens  *TokenSet
}

// VillageReverseClient looks up the village at a lat/lng.
type VillageReverseClient struct {
	apiClient
	baseURL string
	tokens  *TokenSet
}

// VillageSummary carries the normalized geocoding fields.
type VillageSummary struct {
	Found       bool    `json:"found"`
	State       string  `json:"state"`
	District    string  `json:"district"`
	Coordinates *LngLat `json:"coordinates"`
	Population  any     `json:"population"`
	CensusYear  string  `json:"census_year"`
}

// VillageResult is the shaped outcome of one geocoding query.
type VillageResult struct {
	Timestamp   string         `json:"timestamp"`
	VillageName string         `json:"village_name"`
	VillageData any            `json:"village_data"`
	Summary     VillageSummary `json:"summary"`
}

// ReverseSummary carries the normalized reverse-geocoding fields.
type ReverseSummary struct {
	VillageFound      bool   `json:"village_found"`
	VillageName       string `json:"village_name"`
	State             string `json:"state"`
	District          string `json:"district"`
	Population        any    `json:"population"`
	CensusYear        string `json:"census_year"`
	DistanceFromQuery any    `json:"distance_from_query"`
}

// ReverseResult is the shaped outcome of one reverse-geocoding query.
type ReverseResult struct {
	Timestamp   string         `json:"timestamp"`
	Coordinates Coordinates    `json:"coordinates"`
	VillageData any            `json:"village_data"`
	Summary     ReverseSummary `json:"summary"`
}

// BatchItemError records one failed item of a batch lookup.
type BatchItemError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func NewVillageGeocodeClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *VillageGeocodeClient {
	return &VillageGeocodeClient{
		apiClient: newAPIClient(30*time.Second, dataDir, log),
		baseURL:   cfg.GeocodeURL,
		tokens:    tokens,
	}
}

// GetVillageData fetches census data for a village by name.
func (c *VillageGeocodeClient) GetVillageData(villageName string) (*VillageResult, error) {
	c.log.Info("fetching village geocoding data", "village", villageName)

	token, err := c.tokens.Get(config.ServiceVillageGeocoding)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"village": {villageName},
		"token":   {token},
	}
	raw, err := c.getJSON(c.baseURL, params)
	if err != nil {
		return nil, err
	}

	result := shapeVillage(raw, villageName)
	c.saveArtifact("village_geocode_"+safeName(villageName), result)
	return result, nil
}

// SearchVillages runs the single lookup over a list of names. One item's
// failure is recorded in its slot and does not halt the remaining items.
func (c *VillageGeocodeClient) SearchVillages(villageNames []string) map[string]any {
	results := make(map[string]any, len(villageNames))
	for _, name := range villageNames {
		data, err := c.GetVillageData(name)
		if err != nil {
			c.log.Error("village lookup failed", "village", name, "error", err)
			results[name] = BatchItemError{Error: err.Error(), Timestamp: time.Now().Format(time.RFC3339)}
			continue
		}
		results[name] = data
	}
	return results
}

func NewVillageReverseClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *VillageReverseClient {
	return &VillageReverseClient{
		apiClient: newAPIClient(30*time.Second, dataDir, log),
		baseURL:   cfg.ReverseURL,
		tokens:    tokens,
	}
}

// GetVillageAtLocation fetches the village record at specific coordinates.
func (c *VillageReverseClient) GetVillageAtLocation(coords Coordinates) (*ReverseResult, error) {
	c.log.Info("fetching village reverse geocoding data", "coords", coords)

	token, err := c.tokens.Get(config.ServiceVillageReverse)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"lat":   {formatCoord(coords.Lat)},
		"lon":   {formatCoord(coords.Lng)},
		"token": {token},
	}
	raw, err := c.getJSON(c.baseURL, params)
	if err != nil {
		return nil, err
	}

	result := shapeReverse(raw, coords)
	c.saveArtifact(fmt.Sprintf("village_reverse_%v_%v", coords.Lat, coords.Lng), result)
	return result, nil
}

// GetVillagesForLocations runs the single lookup over a coordinate list with
// per-item error capture.
func (c *VillageReverseClient) GetVillagesForLocations(coordsList []Coordinates) map[string]any {
	results := make(map[string]any, len(coordsList))
	for _, coords := range coordsList {
		key := fmt.Sprintf("%v_%v", coords.Lat, coords.Lng)
		data, err := c.GetVillageAtLocation(coords)
		if err != nil {
			c.log.Error("reverse lookup failed", "location", key, "error", err)
			results[key] = BatchItemError{Error: err.Error(), Timestamp: time.Now().Format(time.RFC3339)}
			continue
		}
		results[key] = data
	}
	return results
}

// shapeVillage handles both response shapes the provider produces: a GeoJSON
// feature collection, or a bare list of village records.
func shapeVillage(raw any, villageName string) *VillageResult {
	result := &VillageResult{
		Timestamp:   time.Now().Format(time.RFC3339),
		VillageName: villageName,
		VillageData: raw,
		Summary:     VillageSummary{CensusYear: censusYear},
	}

	if data := asMap(raw); data != nil {
		features := asSlice(data["features"])
		if len(features) == 0 {
			return result
		}
		result.Summary.Found = true
		feature := asMap(features[0]) // first match
		if props := asMap(feature["properties"]); props != nil {
			result.Summary.State = getString(props, "state")
			result.Summary.District = getString(props, "district")
			result.Summary.Population = getAny(props, "population")
		}
		if geom := asMap(feature["geometry"]); geom != nil {
			result.Summary.Coordinates = pointFromPair(geom["coordinates"])
		}
		return result
	}

	if items := asSlice(raw); len(items) > 0 {
		result.Summary.Found = true
		if info := asMap(items[0]); info != nil {
			result.Summary.State = getString(info, "state")
			result.Summary.District = getString(info, "district")
			result.Summary.Population = getAny(info, "population")
			lng, okLng := info["longitude"].(float64)
			lat, okLat := info["latitude"].(float64)
			if okLng && okLat {
				result.Summary.Coordinates = &LngLat{Lng: lng, Lat: lat}
			}
		}
	}
	return result
}

func shapeReverse(raw any, coords Coordinates) *ReverseResult {
	result := &ReverseResult{
		Timestamp:   time.Now().Format(time.RFC3339),
		Coordinates: coords,
		VillageData: raw,
		Summary:     ReverseSummary{CensusYear: censusYear},
	}

	fill := func(m map[string]any) {
		result.Summary.VillageFound = true
		result.Summary.VillageName = getString(m, "village_name", "name")
		result.Summary.State = getString(m, "state")
		result.Summary.District = getString(m, "district")
		result.Summary.Population = getAny(m, "population")
		result.Summary.DistanceFromQuery = getAny(m, "distance")
	}

	if data := asMap(raw); data != nil {
		if features := asSlice(data["features"]); len(features) > 0 {
			// Closest match first.
			if props := asMap(asMap(features[0])["properties"]); props != nil {
				fill(props)
			} else {
				result.Summary.VillageFound = true
			}
		} else if getString(data, "village_name", "name") != "" {
			fill(data)
		}
		return result
	}

	if items := asSlice(raw); len(items) > 0 {
		if info := asMap(items[0]); info != nil {
			fill(info)
		}
	}
	return result
}

func safeName(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(name)
}
