package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("Port = %q", cfg.HTTP.Port)
	}
	if cfg.HTTP.BodyLimitBytes != 4*1024*1024 {
		t.Errorf("BodyLimitBytes = %d", cfg.HTTP.BodyLimitBytes)
	}
	if cfg.HTTP.RateLimitWindow != 60*time.Second {
		t.Errorf("RateLimitWindow = %v", cfg.HTTP.RateLimitWindow)
	}
	if cfg.KGIS.BaseURL != "https://kgis.ksrsac.in:9000/genericwebservices/ws" {
		t.Errorf("KGIS BaseURL = %q", cfg.KGIS.BaseURL)
	}
	if cfg.Bhuvan.DefaultStateCode != "KL" || cfg.Bhuvan.DefaultDistrictCode != "3201" || cfg.Bhuvan.DefaultYear != "1112" {
		t.Errorf("defaults = %q %q %q", cfg.Bhuvan.DefaultStateCode, cfg.Bhuvan.DefaultDistrictCode, cfg.Bhuvan.DefaultYear)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadTokens(t *testing.T) {
	t.Setenv("BHUVAN_ROUTING_TOKEN", "route-tok")
	t.Setenv("BHUVAN_API_TOKEN", "legacy-tok")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bhuvan.Tokens[ServiceRouting] != "route-tok" {
		t.Errorf("routing token = %q", cfg.Bhuvan.Tokens[ServiceRouting])
	}
	if cfg.Bhuvan.Tokens[ServiceGeoid] != "" {
		t.Errorf("geoid token = %q, want unset", cfg.Bhuvan.Tokens[ServiceGeoid])
	}
	if cfg.Bhuvan.Legacy != "legacy-tok" {
		t.Errorf("legacy = %q", cfg.Bhuvan.Legacy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BODY_LIMIT_BYTES", "1024")
	t.Setenv("BHUVAN_ROUTING_API_URL", "http://localhost:1234/route")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != "9999" {
		t.Errorf("Port = %q", cfg.HTTP.Port)
	}
	if cfg.HTTP.BodyLimitBytes != 1024 {
		t.Errorf("BodyLimitBytes = %d", cfg.HTTP.BodyLimitBytes)
	}
	if cfg.Bhuvan.RoutingURL != "http://localhost:1234/route" {
		t.Errorf("RoutingURL = %q", cfg.Bhuvan.RoutingURL)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseSettings{
		Host: "db", Port: "5432", User: "app", Password: "secret", Name: "gateway", SSLMode: "disable",
	}
	want := "host=db user=app password=secret dbname=gateway port=5432 sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
