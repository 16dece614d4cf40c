package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bookflix/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the bookflix API
//	-d string   path of the local session database
//	-t int      request timeout in seconds
//	-p string   no-subscription policy: "free" or "error"
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the bookflix API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local session database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.NoSubscriptionPolicy, "p", cfg.NoSubscriptionPolicy, `no-subscription policy ("free" or "error")`)

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
