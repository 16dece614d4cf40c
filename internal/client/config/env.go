package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "BOOKFLIX_"

// parseEnv overlays Config with BOOKFLIX_* environment variables. A .env
// file in the working directory is loaded first; variables already set in
// the process environment win over it. Unset or unparsable values keep the
// current setting.
func parseEnv(cfg *Config) {
	_ = godotenv.Load() // silently ignore if .env doesn't exist
	applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	env := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		return v, ok && v != ""
	}

	if v, ok := env("API_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := env("REFRESH_PATH"); ok {
		cfg.RefreshPath = v
	}
	if v, ok := env("SEARCH_PATH"); ok {
		cfg.SearchPath = v
	}
	if v, ok := env("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := env("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = envDuration(v, cfg.RequestTimeout)
	}
	if v, ok := env("SEARCH_DEBOUNCE"); ok {
		cfg.SearchDebounce = envDuration(v, cfg.SearchDebounce)
	}
	if v, ok := env("MAX_RETRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v, ok := env("RPS"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RequestsPerSecond = f
		}
	}
	if v, ok := env("NO_SUBSCRIPTION_POLICY"); ok {
		cfg.NoSubscriptionPolicy = v
	}
	if v, ok := env("REQUIRE_NAMES"); ok {
		cfg.RequireNames = envBool(v, cfg.RequireNames)
	}
	if v, ok := env("REQUIRE_PHONE"); ok {
		cfg.RequirePhone = envBool(v, cfg.RequirePhone)
	}
	if v, ok := env("REQUIRE_BIRTHDATE"); ok {
		cfg.RequireBirthdate = envBool(v, cfg.RequireBirthdate)
	}
	if v, ok := env("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func envDuration(v string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}

func envBool(v string, fallback bool) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return fallback
}
