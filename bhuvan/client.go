package bhuvan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Coordinates is a lat/lng pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LngLat is a longitude-first point, matching GeoJSON ordering.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

const (
	timestampLayout = "20060102_150405"
	outboundRPS     = 5
)

// apiClient is the outbound pipeline shared by every provider client: one
// rate-limited synchronous HTTP call with a fixed per-client timeout, body
// classification (JSON vs text), and best-effort artifact persistence.
type apiClient struct {
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
	dataDir string
}

func newAPIClient(timeout time.Duration, dataDir string, log *slog.Logger) apiClient {
	return apiClient{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(outboundRPS), 1),
		log:     log,
		dataDir: dataDir,
	}
}

// getBody performs a GET with query parameters and returns the raw body.
func (c *apiClient) getBody(baseURL string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API request failed: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// getClassified GETs and classifies the body: parseable JSON is returned
// decoded, anything else comes back as trimmed text so callers can wrap it
// as an unstructured-error summary instead of failing.
func (c *apiClient) getClassified(baseURL string, params url.Values) (parsed any, text string, err error) {
	body, err := c.getBody(baseURL, params)
	if err != nil {
		return nil, "", err
	}
	trimmed := strings.TrimSpace(string(body))
	var v any
	if json.Unmarshal([]byte(trimmed), &v) == nil {
		return v, "", nil
	}
	return nil, trimmed, nil
}

// getJSON GETs and requires a JSON body.
func (c *apiClient) getJSON(baseURL string, params url.Values) (any, error) {
	parsed, text, err := c.getClassified(baseURL, params)
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, fmt.Errorf("failed to parse JSON response: %s", truncate(text, 200))
	}
	return parsed, nil
}

// saveArtifact writes a timestamped JSON file under the data directory.
// Failure is logged and swallowed; the audit trail must never break a call.
func (c *apiClient) saveArtifact(name string, payload any) {
	dir := c.dataDir
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.log.Warn("failed to create artifact dir", "dir", dir, "error", err)
		return
	}
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, time.Now().Format(timestampLayout)))
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		c.log.Warn("failed to marshal artifact", "file", filename, "error", err)
		return
	}
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		c.log.Warn("failed to save artifact", "file", filename, "error", err)
		return
	}
	c.log.Info("saved response artifact", "file", filename)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Defensive accessors for shaping heterogeneous provider JSON. Every lookup
// treats absent or differently-typed fields as "no data".

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func getFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			if n != 0 {
				return n
			}
		case string:
			var f float64
			if _, err := fmt.Sscanf(n, "%g", &f); err == nil && f != 0 {
				return f
			}
		}
	}
	return 0
}

func getAny(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// pointFromPair reads a [lng, lat] pair out of an untyped coordinate array.
func pointFromPair(v any) *LngLat {
	pair := asSlice(v)
	if len(pair) < 2 {
		return nil
	}
	lng, okLng := pair[0].(float64)
	lat, okLat := pair[1].(float64)
	if !okLng || !okLat {
		return nil
	}
	return &LngLat{Lng: lng, Lat: lat}
}
