package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the process needs, resolved once at startup.
// It is immutable after Load; constructors receive it by reference.
type AppConfig struct {
	HTTP     HTTPSettings
	Database DatabaseSettings
	Bhuvan   BhuvanSettings
	KGIS     KGISSettings
	DataDir  string
}

type HTTPSettings struct {
	Port            string
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration
	AllowedOrigins  string
}

type DatabaseSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// BhuvanSettings carries the per-service token table plus provider URLs and
// default codes used by the thematic statistics client.
type BhuvanSettings struct {
	Tokens map[string]string // service name -> token, "" when unset
	Legacy string            // shared fallback token

	StatisticsURL string
	PieURL        string
	AOIURL        string
	GeoidURL      string
	RoutingURL    string
	ProximityURL  string
	GeocodeURL    string
	ReverseURL    string

	DefaultStateCode    string
	DefaultDistrictCode string
	DefaultYear         string

	DistrictCodesFile string
	StateCodesFile    string
}

type KGISSettings struct {
	BaseURL string
}

// Bhuvan service names. These key both the token table and the env vars
// (BHUVAN_<NAME>_TOKEN, upper-cased).
const (
	ServiceLULCStatistics   = "lulc_statistics"
	ServiceLULCAOIWise      = "lulc_aoi_wise"
	ServicePostalHospital   = "postal_hospital"
	ServiceVillageGeocoding = "village_geocoding"
	ServiceVillageReverse   = "village_reverse_geocoding"
	ServiceRouting          = "routing"
	ServiceGeoid            = "geoid"
)

var serviceNames = []string{
	ServiceLULCStatistics,
	ServiceLULCAOIWise,
	ServicePostalHospital,
	ServiceVillageGeocoding,
	ServiceVillageReverse,
	ServiceRouting,
	ServiceGeoid,
}

// Load resolves the application configuration from environment variables,
// reading a .env file first if one exists. Real environment variables win
// over .env values.
func Load(log *slog.Logger) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		HTTP: HTTPSettings{
			Port:            envStr("PORT", "8080"),
			BodyLimitBytes:  envInt("BODY_LIMIT_BYTES", envInt("BODY_LIMIT_MB", 4)*1024*1024),
			RateLimitMax:    envInt("RATE_LIMIT_MAX", 60),
			RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
			AllowedOrigins:  envStr("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseSettings{
			Host:     envStr("DB_HOST", "db"),
			Port:     envStr("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  envStr("DB_SSLMODE", "disable"),
		},
		Bhuvan: BhuvanSettings{
			Tokens: loadTokens(),
			Legacy: os.Getenv("BHUVAN_API_TOKEN"),

			StatisticsURL: envStr("BHUVAN_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/lulc/curljson.php"),
			PieURL:        envStr("BHUVAN_PIE_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/lulc/curlpie.php"),
			AOIURL:        envStr("BHUVAN_AOI_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/lulc/curl_aoi.php"),
			GeoidURL:      envStr("BHUVAN_GEOID_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/geoid/curl_gdal_api.php"),
			RoutingURL:    envStr("BHUVAN_ROUTING_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/routing/curl_routing_state.php"),
			ProximityURL:  envStr("BHUVAN_PROXIMITY_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/api_proximity/curl_hos_pos_prox.php"),
			GeocodeURL:    envStr("BHUVAN_GEOCODE_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/api_proximity/curl_village_geocode.php"),
			ReverseURL:    envStr("BHUVAN_REVERSE_API_URL", "https://bhuvan-app1.nrsc.gov.in/api/api_proximity/curl_reverse_village.php"),

			DefaultStateCode:    envStr("DEFAULT_STATE_CODE", "KL"),
			DefaultDistrictCode: envStr("DEFAULT_DISTRICT_CODE", "3201"),
			DefaultYear:         envStr("DEFAULT_YEAR", "1112"),

			DistrictCodesFile: envStr("DISTRICT_CODES_FILE", "data/district_codes.json"),
			StateCodesFile:    envStr("STATE_CODES_FILE", "data/state_codes.json"),
		},
		KGIS: KGISSettings{
			BaseURL: envStr("KGIS_BASE_URL", "https://kgis.ksrsac.in:9000/genericwebservices/ws"),
		},
		DataDir: envStr("DATA_DIR", "data"),
	}

	if log != nil {
		logTokenStatus(log, cfg.Bhuvan)
	}
	return cfg, nil
}

// DSN renders the Postgres connection string for GORM.
func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

func loadTokens() map[string]string {
	tokens := make(map[string]string, len(serviceNames))
	for _, svc := range serviceNames {
		tokens[svc] = os.Getenv("BHUVAN_" + strings.ToUpper(svc) + "_TOKEN")
	}
	return tokens
}

// logTokenStatus reports which services have tokens at startup. Observability
// only; a missing token surfaces later as a per-request failure.
func logTokenStatus(log *slog.Logger, b BhuvanSettings) {
	var available, missing []string
	for svc, tok := range b.Tokens {
		if tok != "" {
			available = append(available, svc)
		} else {
			missing = append(missing, svc)
		}
	}
	sort.Strings(available)
	sort.Strings(missing)
	if len(available) > 0 {
		log.Info("bhuvan tokens available", "services", strings.Join(available, ","))
	}
	if len(missing) > 0 {
		log.Warn("bhuvan tokens missing", "services", strings.Join(missing, ","), "legacy_fallback", b.Legacy != "")
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
