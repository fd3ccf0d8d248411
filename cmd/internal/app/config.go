package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	APIBaseURL string
	WSURL      string
	LogLevel   string

	HTTPTimeout time.Duration

	// TokenPath overrides where the bearer token file lives. Empty means
	// the per-user config directory.
	TokenPath string

	// MetricsAddr, when set, serves Prometheus metrics on that address
	// for debugging. Empty disables the listener.
	MetricsAddr string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	base := EnvString("CURIO_API_BASE_URL", "http://localhost:4000")

	return Config{
		APIBaseURL: base,
		// The event channel defaults to the API host; ws:// is derived
		// from the scheme when no explicit URL is given.
		WSURL:    EnvString("CURIO_WS_URL", base),
		LogLevel: EnvString("CURIO_LOG_LEVEL", "info"),

		HTTPTimeout: EnvDuration("CURIO_HTTP_TIMEOUT", 15*time.Second),

		TokenPath:   EnvString("CURIO_TOKEN_PATH", ""),
		MetricsAddr: EnvString("CURIO_METRICS_ADDR", ""),
	}
}
