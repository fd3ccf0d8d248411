package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"CURIO_API_BASE_URL", "CURIO_WS_URL", "CURIO_LOG_LEVEL",
		"CURIO_HTTP_TIMEOUT", "CURIO_TOKEN_PATH", "CURIO_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.APIBaseURL != "http://localhost:4000" {
		t.Fatalf("APIBaseURL=%q", cfg.APIBaseURL)
	}
	if cfg.WSURL != cfg.APIBaseURL {
		t.Fatalf("WSURL should default to the API base, got %q", cfg.WSURL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel=%q", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("HTTPTimeout=%v", cfg.HTTPTimeout)
	}
	if cfg.MetricsAddr != "" || cfg.TokenPath != "" {
		t.Fatalf("expected empty MetricsAddr and TokenPath")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CURIO_API_BASE_URL", "https://api.curio.example")
	t.Setenv("CURIO_WS_URL", "wss://rt.curio.example")
	t.Setenv("CURIO_LOG_LEVEL", "debug")
	t.Setenv("CURIO_HTTP_TIMEOUT", "3s")
	t.Setenv("CURIO_TOKEN_PATH", "/tmp/curio-token.json")
	t.Setenv("CURIO_METRICS_ADDR", "127.0.0.1:9091")

	cfg := LoadConfig()
	if cfg.APIBaseURL != "https://api.curio.example" {
		t.Fatalf("APIBaseURL=%q", cfg.APIBaseURL)
	}
	if cfg.WSURL != "wss://rt.curio.example" {
		t.Fatalf("WSURL=%q", cfg.WSURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel=%q", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("HTTPTimeout=%v", cfg.HTTPTimeout)
	}
	if cfg.TokenPath != "/tmp/curio-token.json" {
		t.Fatalf("TokenPath=%q", cfg.TokenPath)
	}
	if cfg.MetricsAddr != "127.0.0.1:9091" {
		t.Fatalf("MetricsAddr=%q", cfg.MetricsAddr)
	}
}
