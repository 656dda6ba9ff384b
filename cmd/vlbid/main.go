// vlbid is the command-driven VLBI data-acquisition server (spec.md §1)
// plus a handful of standalone inspection verbs over the same
// components. The default verb, "serve", accepts VSI/S-style text
// commands over TCP, one Session per connection, and dispatches them
// through internal/command into internal/session. "scan-check" and
// "mk6info" run component B/D in isolation against a single file;
// "vbs-ls" runs component D's recording scan against a mountpoint set.
// Hardware I/O boards, the StreamStor SDK and the track-mask JIT are out
// of scope (spec.md §1 "Out of scope") and are not wired here.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
)

const versionString = "vlbid 1.0.0"

func main() {
	var (
		listenAddr = flag.String("listen", ":2620", "address to accept VSI/S command connections on (serve verb)")
		logLevel   = flag.String("log-level", "", "override config log level (debug, info, warn, error)")
		verbose    = flag.Bool("v", false, "shorthand for -log-level=debug")
		version    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		return
	}

	cfg := loadConfig(*logLevel, *verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.slogLevel}))
	slog.SetDefault(logger)

	verb := "serve"
	args := flag.Args()
	if len(args) > 0 {
		verb = args[0]
		args = args[1:]
	}

	var err error
	switch verb {
	case "serve":
		err = cmdServe(cfg, logger, *listenAddr)
	case "scan-check":
		err = cmdScanCheck(cfg, args)
	case "mk6info":
		err = cmdMk6Info(args)
	case "vbs-ls":
		err = cmdVbsLs(cfg, args)
	default:
		log.Fatalf("vlbid: unknown verb %q (want serve, scan-check, mk6info, vbs-ls)", verb)
	}
	if err != nil {
		log.Fatalf("vlbid %s: %v", verb, err)
	}
}
