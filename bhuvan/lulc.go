package bhuvan

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/url"
	"time"

	"geogateway-backend/config"
	"geogateway-backend/utils"
)

// LULCClient talks to the Bhuvan LULC area-of-interest service: land
// use/land cover statistics for an arbitrary polygon.
type LULCClient struct {
	apiClient
	baseURL string
	tokens  *TokenSet
}

// LULCClass is one land-cover class inside an AOI summary.
type LULCClass struct {
	Name string  `json:"name"`
	Area float64 `json:"area"`
	Code string  `json:"code"`
}

// DominantClass is the largest land-cover class by area.
type DominantClass struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Area       float64 `json:"area"`
	Percentage float64 `json:"percentage"`
}

// LULCSummary carries the normalized fields extracted from the provider
// response. Every field is always present, however malformed the input.
type LULCSummary struct {
	TotalArea     float64              `json:"total_area"`
	LULCClasses   map[string]LULCClass `json:"lulc_classes"`
	StatesCovered []string             `json:"states_covered"`
	DominantClass *DominantClass       `json:"dominant_lulc_class"`
}

// AOIStatistics is the shaped result for one AOI query, raw payload included
// for traceability.
type AOIStatistics struct {
	Timestamp   string      `json:"timestamp"`
	GeometryWKT string      `json:"geometry_wkt"`
	AOIData     any         `json:"aoi_data"`
	Summary     LULCSummary `json:"summary"`
}

func NewLULCClient(cfg config.BhuvanSettings, tokens *TokenSet, dataDir string, log *slog.Logger) *LULCClient {
	return &LULCClient{
		// Longer timeout: AOI processing is slow on the provider side.
		apiClient: newAPIClient(60*time.Second, dataDir, log),
		baseURL:   cfg.AOIURL,
		tokens:    tokens,
	}
}

// GetAOIStatistics fetches LULC statistics for a WKT polygon.
func (c *LULCClient) GetAOIStatistics(geometryWKT string) (*AOIStatistics, error) {
	token, err := c.tokens.Get(config.ServiceLULCAOIWise)
	if err != nil {
		return nil, err
	}

	c.log.Info("fetching LULC AOI statistics", "geometry", truncate(geometryWKT, 100))

	params := url.Values{
		"geom":  {geometryWKT},
		"token": {token},
	}
	raw, err := c.getJSON(c.baseURL, params)
	if err != nil {
		return nil, err
	}

	result := shapeAOIStatistics(raw, geometryWKT)
	c.saveArtifact(fmt.Sprintf("lulc_aoi_%s", geomHash(geometryWKT)), result)
	return result, nil
}

// GetPolygonStatistics converts a [lng, lat] coordinate list into a closed
// WKT polygon and queries the AOI service.
func (c *LULCClient) GetPolygonStatistics(coords [][2]float64) (*AOIStatistics, error) {
	wkt, err := utils.ToWKTPolygon(coords)
	if err != nil {
		return nil, err
	}
	return c.GetAOIStatistics(wkt)
}

// GetBoundingBoxStatistics expands a bounding box into its four-corner
// polygon and queries the AOI service.
func (c *LULCClient) GetBoundingBoxStatistics(minLng, minLat, maxLng, maxLat float64) (*AOIStatistics, error) {
	return c.GetPolygonStatistics(utils.BBoxPolygon(minLng, minLat, maxLng, maxLat))
}

// shapeAOIStatistics extracts the summary from the two response shapes the
// provider is known to produce: a GeoJSON feature collection with per-class
// properties, or a flat lulc_statistics list.
func shapeAOIStatistics(raw any, geometryWKT string) *AOIStatistics {
	result := &AOIStatistics{
		Timestamp:   time.Now().Format(time.RFC3339),
		GeometryWKT: geometryWKT,
		AOIData:     raw,
		Summary: LULCSummary{
			LULCClasses:   map[string]LULCClass{},
			StatesCovered: []string{},
		},
	}

	data := asMap(raw)
	if data == nil {
		return result
	}

	var totalArea float64
	classes := result.Summary.LULCClasses

	if features := asSlice(data["features"]); features != nil {
		seen := map[string]bool{}
		for _, f := range features {
			props := asMap(asMap(f)["properties"])
			if props == nil {
				continue
			}
			area := getFloat(props, "area")
			code := getString(props, "lulc_code", "class_code")
			name := getString(props, "lulc_name", "class_name")
			if code != "" && area != 0 {
				classes[code] = LULCClass{Name: name, Area: area, Code: code}
				totalArea += area
			}
			if state := getString(props, "state"); state != "" && !seen[state] {
				seen[state] = true
				result.Summary.StatesCovered = append(result.Summary.StatesCovered, state)
			}
		}
	} else if stats := asSlice(data["lulc_statistics"]); stats != nil {
		for _, s := range stats {
			stat := asMap(s)
			if stat == nil {
				continue
			}
			code := getString(stat, "code")
			if code == "" {
				continue
			}
			area := getFloat(stat, "area")
			classes[code] = LULCClass{Name: getString(stat, "name"), Area: area, Code: code}
			totalArea += area
		}
	}

	result.Summary.TotalArea = totalArea

	var dominant *DominantClass
	for code, cl := range classes {
		if dominant == nil || cl.Area > dominant.Area {
			dominant = &DominantClass{Code: code, Name: cl.Name, Area: cl.Area}
		}
	}
	if dominant != nil {
		if totalArea > 0 {
			dominant.Percentage = dominant.Area / totalArea * 100
		}
		result.Summary.DominantClass = dominant
	}
	return result
}

func geomHash(wkt string) string {
	h := fnv.New32a()
	h.Write([]byte(wkt))
	return fmt.Sprintf("%08x", h.Sum32())
}
