package bhuvan

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"geogateway-backend/config"
)

// ThematicClient talks to the Bhuvan LULC district statistics service.
//
// This client never returns an error for provider-side failures: callers get
// a map carrying an "error" key instead, and are expected to inspect it.
type ThematicClient struct {
	apiClient
	baseURL     string
	tokens      *TokenSet
	defaultYear string

	districtCodes map[string]string
	stateCodes    map[string]string
}

// ThematicDetails are the district-level query parameters.
type ThematicDetails struct {
	Distcode string
	Year     string
}

func NewThematicClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *ThematicClient {
	c := &ThematicClient{
		apiClient:     newAPIClient(30*time.Second, dataDir, log),
		baseURL:       cfg.StatisticsURL,
		tokens:        tokens,
		defaultYear:   cfg.DefaultYear,
		districtCodes: loadCodeTable(cfg.DistrictCodesFile, log),
		stateCodes:    loadCodeTable(cfg.StateCodesFile, log),
	}
	return c
}

// loadCodeTable reads a name->code JSON map. A missing or malformed file is
// an empty table, not a startup failure.
func loadCodeTable(path string, log *slog.Logger) map[string]string {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("could not load code table", "file", path, "error", err)
		return map[string]string{}
	}
	var table map[string]string
	if err := json.Unmarshal(raw, &table); err != nil {
		log.Warn("could not parse code table", "file", path, "error", err)
		return map[string]string{}
	}
	return table
}

// DistrictCode looks up a district code by name.
func (c *ThematicClient) DistrictCode(name string) string {
	return c.districtCodes[name]
}

// StateCode looks up a state code by name.
func (c *ThematicClient) StateCode(name string) string {
	return c.stateCodes[name]
}

// GetStatistics fetches LULC statistics for a district. All failure modes
// come back as {"error": reason} maps.
func (c *ThematicClient) GetStatistics(coords Coordinates, details ThematicDetails) map[string]any {
	token, err := c.tokens.Get(config.ServiceLULCStatistics)
	if err != nil {
		return map[string]any{"error": "No valid LULC statistics token available"}
	}
	if details.Distcode == "" {
		return map[string]any{"error": "Missing required parameter: distcode"}
	}

	year := details.Year
	if year == "" {
		year = c.defaultYear
	}
	params := url.Values{
		"distcode": {details.Distcode},
		"year":     {year},
		"token":    {token},
	}

	parsed, text, err := c.getClassified(c.baseURL, params)
	if err != nil {
		return map[string]any{"error": "Request failed: " + err.Error()}
	}
	if parsed == nil {
		// Short text bodies mentioning the theme or token are provider-side
		// validation messages, not transport noise.
		lower := strings.ToLower(text)
		if len(text) < 200 && (strings.Contains(lower, "theme") || strings.Contains(lower, "verify")) {
			return map[string]any{"error": "API validation error: " + text}
		}
		return map[string]any{"error": "Invalid JSON response: " + truncate(text, 200)}
	}

	result := map[string]any{"lulc_statistics": parsed}
	c.saveArtifact("lulc_stats_district_"+details.Distcode, result)
	return result
}
