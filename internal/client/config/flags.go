package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the DentaCare API
//	-t duration   per-request timeout, e.g. 5s
//	-s string     token storage backend: cookie, sqlite or memory
//	-p string     token storage file
//	-l string     UI locale, e.g. en or fr
//	-i int        session check interval in seconds, 0 disables it
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s", "-p", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the DentaCare API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "token storage backend (cookie, sqlite, memory)")
	fs.StringVar(&cfg.StoragePath, "p", cfg.StoragePath, "token storage file")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "UI locale")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
}
