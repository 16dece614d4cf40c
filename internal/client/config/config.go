package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds runtime settings for the bookflix CLI.
//
// Units: RequestTimeout and SearchDebounce are time.Duration values;
// RequestsPerSecond of 0 disables client-side throttling.
type Config struct {
	APIBaseURL  string
	RefreshPath string
	SearchPath  string
	DBPath      string

	RequestTimeout    time.Duration
	SearchDebounce    time.Duration
	MaxRetries        int
	RequestsPerSecond float64

	// NoSubscriptionPolicy is "free" or "error", see services.NoSubscriptionPolicy.
	NoSubscriptionPolicy string

	RequireNames     bool
	RequirePhone     bool
	RequireBirthdate bool

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RefreshPath = "/token/refresh/"
	c.SearchPath = "/books/search/"
	c.DBPath = "bookflix.db"
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.MaxRetries = 2
	c.RequestsPerSecond = 0
	c.NoSubscriptionPolicy = "free"
	c.RequireNames = false
	c.RequirePhone = false
	c.RequireBirthdate = false
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be an absolute http(s) URL", c.APIBaseURL))
	}
	for name, p := range map[string]string{"refresh path": c.RefreshPath, "search path": c.SearchPath} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s %q must start with '/'", name, p))
		}
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.SearchDebounce < 0 {
		errs = append(errs, errors.New("search debounce must not be negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries must not be negative"))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("requests per second must not be negative"))
	}
	switch strings.ToLower(c.NoSubscriptionPolicy) {
	case "free", "error":
	default:
		errs = append(errs, fmt.Errorf("no-subscription policy %q must be \"free\" or \"error\"", c.NoSubscriptionPolicy))
	}

	return errors.Join(errs...)
}
