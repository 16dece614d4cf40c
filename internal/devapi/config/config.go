// Package config handles configuration for the development API server:
// defaults, environment and command-line flags.
package config

import (
	"os"
	"time"
)

// SecretEnv names the variable that overrides the signing secret, so it
// does not have to appear on the command line.
const SecretEnv = "BOOKFLIX_DEVAPI_SECRET"

// Config holds runtime settings for the development API.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Test default only.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - LoginsPerMinute: login attempts accepted per minute; 0 disables the limit.
type Config struct {
	Addr                         string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	LoginsPerMinute              int
}

// LoadDefaults populates Config with development defaults. The access token
// lifetime is short so the client's refresh path is exercised in practice.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.LoginsPerMinute = 30
}

// LoadConfig builds a Config from defaults, the environment and the
// process command line.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	if v, ok := os.LookupEnv(SecretEnv); ok && v != "" {
		cfg.SecretKey = v
	}
	parseFlags(cfg, os.Args[1:])
	return cfg
}
