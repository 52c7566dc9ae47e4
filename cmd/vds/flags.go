package main

import (
	"flag"
	"fmt"
	"os"
)

// Config holds the demo's resolved flag values.
type Config struct {
	Scheme    string
	Q         uint
	Verbose   bool
	LogFormat string
}

// DefaultConfig returns the demo's default configuration.
func DefaultConfig() Config {
	return Config{Scheme: "acc", Q: 4, Verbose: false, LogFormat: "json"}
}

// parseFlags parses CLI arguments into a Config. It returns the config,
// whether the caller should exit immediately, and the exit code.
func parseFlags(args []string) (Config, bool, int) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("vds", flag.ContinueOnError)
	fs.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "construction to demo: acc or cvc")
	fs.UintVar(&cfg.Q, "q", cfg.Q, "CVC tree arity (ignored for --scheme=acc)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "print proof payload field names")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log output format: json, text, or color")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}
	if *showVersion {
		fmt.Println("vds demo CLI")
		return cfg, true, 0
	}
	return cfg, false, 0
}
