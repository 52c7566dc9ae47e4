// Command vds is a small demo frontend over the VDS engines: it runs a
// scripted append/query/verify/update cycle against an in-memory store and
// prints the outcome of each step. It is explicitly out of core (spec §1,
// §6): it consumes and produces proof payloads without interpreting them.
//
// Usage:
//
//	vds [flags]
//
// Flags:
//
//	--scheme      Construction to demo: acc or cvc (default: acc)
//	--q           CVC tree arity, ignored for --scheme=acc (default: 4)
//	--verbose     Print each proof payload's field names (default: false)
//	--log-format  Log output format: json, text, or color (default: json)
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eth2030/vds/log"
)

var (
	version = "v0.1.0-dev"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. It accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	switch cfg.LogFormat {
	case "text":
		log.SetDefault(log.NewText(os.Stderr, slog.LevelInfo))
	case "color":
		log.SetDefault(log.NewColor(os.Stderr, slog.LevelInfo))
	case "json", "":
		// log.Default() is already JSON-backed.
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown log-format %q (want json, text, or color)\n", cfg.LogFormat)
		return 2
	}

	log.Info(fmt.Sprintf("vds %s starting demo", version), "scheme", cfg.Scheme, "q", cfg.Q)

	switch cfg.Scheme {
	case "acc":
		if err := runACCDemo(cfg); err != nil {
			log.Error("acc demo failed", "err", err)
			return 1
		}
	case "cvc":
		if err := runCVCDemo(cfg); err != nil {
			log.Error("cvc demo failed", "err", err)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown scheme %q (want acc or cvc)\n", cfg.Scheme)
		return 2
	}

	log.Info("demo complete")
	return 0
}
