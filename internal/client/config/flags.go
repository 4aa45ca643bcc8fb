package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   explicit backend base URL
//	-o string   origin host the client runs on
//	-d string   credential store database path
//	-t int      request timeout in seconds
//	-l string   log level (debug, info, warn, error)
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and other
// components' flags do not interfere.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.OriginHost, "o", cfg.OriginHost, "origin host name")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "credential store path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// -t overrides only when given, so sub-second file values survive
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			set = true
		}
	})
	if !set {
		return nil
	}
	if *timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", *timeout)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
