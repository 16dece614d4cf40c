package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bookflix/internal/flagx"
	"github.com/dmitrijs2005/bookflix/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names. Durations use timex.Duration ("300ms" or
// integer nanoseconds).
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	RefreshPath          *string         `json:"refresh_path"`
	SearchPath           *string         `json:"search_path"`
	DBPath               *string         `json:"db_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	SearchDebounce       *timex.Duration `json:"search_debounce"`
	MaxRetries           *int            `json:"max_retries"`
	RequestsPerSecond    *float64        `json:"requests_per_second"`
	NoSubscriptionPolicy *string         `json:"no_subscription_policy"`
	RequireNames         *bool           `json:"require_names"`
	RequirePhone         *bool           `json:"require_phone"`
	RequireBirthdate     *bool           `json:"require_birthdate"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag nothing happens.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.RefreshPath, jc.RefreshPath)
	setIf(&cfg.SearchPath, jc.SearchPath)
	setIf(&cfg.DBPath, jc.DBPath)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	setIf(&cfg.MaxRetries, jc.MaxRetries)
	setIf(&cfg.RequestsPerSecond, jc.RequestsPerSecond)
	setIf(&cfg.NoSubscriptionPolicy, jc.NoSubscriptionPolicy)
	setIf(&cfg.RequireNames, jc.RequireNames)
	setIf(&cfg.RequirePhone, jc.RequirePhone)
	setIf(&cfg.RequireBirthdate, jc.RequireBirthdate)
	setIf(&cfg.LogLevel, jc.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
