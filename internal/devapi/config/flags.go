package config

import (
	"flag"

	"github.com/dmitrijs2005/bookflix/internal/flagx"
	"github.com/dmitrijs2005/bookflix/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-addr string        listen address (e.g. ":8000")
//	-secret string      JWT HMAC secret key
//	-access-ttl dur     access token validity ("30s", "5m")
//	-refresh-ttl dur    refresh token validity
//	-login-rate int     login attempts per minute, 0 for unlimited
//
// Unknown arguments are dropped by flagx.FilterArgs first. Invalid values
// panic, as the rest of the configuration layer does.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-addr", "-secret", "-access-ttl", "-refresh-ttl", "-login-rate"})

	fs := flag.NewFlagSet("devapi", flag.ContinueOnError)

	access := timex.Duration{Duration: cfg.AccessTokenValidityDuration}
	refresh := timex.Duration{Duration: cfg.RefreshTokenValidityDuration}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "secret", cfg.SecretKey, "secret key")
	fs.Var(&access, "access-ttl", "access token validity")
	fs.Var(&refresh, "refresh-ttl", "refresh token validity")
	fs.IntVar(&cfg.LoginsPerMinute, "login-rate", cfg.LoginsPerMinute, "login attempts per minute (0 = unlimited)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AccessTokenValidityDuration = access.Duration
	cfg.RefreshTokenValidityDuration = refresh.Duration
}
