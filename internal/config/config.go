// Package config resolves runtime tunables from built-in defaults,
// overridable by environment variables, following the override-then-
// fallback idiom the teacher used to resolve per-function repository
// URLs (dependencies.go's GetFunctionRepository: check FLAPC_<NAME> first,
// fall back to a built-in table).
package config

import (
	"strings"

	env "github.com/xyproto/env/v2"
)

// envPrefix namespaces every environment override this module reads, the
// way the teacher namespaced overrides under FLAPC_.
const envPrefix = "VLBID_"

// Config holds the handful of process-wide defaults that the command
// protocol (§6.1) can still override per-session; these are only the
// initial values.
type Config struct {
	// MountpointGlobs are the default mountpoint match patterns consulted
	// when a session has not set its own (§4.D mountpoint discovery).
	MountpointGlobs []string
	// ScanCheckBudget is the default inspect-byte budget for the
	// data-check engine (§4.B).
	ScanCheckBudget int
	// MaxSampleProbes is a bound on additional VDIF probe positions
	// (§4.B step 2). No package reads it: the scan-check engine probes
	// only the start of the sampled file.
	MaxSampleProbes int
	// NetMTU, NetRcvBuf, NetSndBuf seed internal/netparms.Params.
	NetMTU    int
	NetRcvBuf int
	NetSndBuf int
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// Default returns the built-in defaults, each overridable via a
// VLBID_-prefixed environment variable.
func Default() Config {
	return Config{
		MountpointGlobs: splitNonEmpty(env.Str(envPrefix+"MOUNTPOINTS", "/mnt/disk*")),
		ScanCheckBudget: env.Int(envPrefix+"SCAN_BUDGET", 1<<20),
		MaxSampleProbes: env.Int(envPrefix+"MAX_SAMPLE_PROBES", 8),
		NetMTU:          env.Int(envPrefix+"NET_MTU", 1500),
		NetRcvBuf:       env.Int(envPrefix+"NET_RCVBUF", 4<<20),
		NetSndBuf:       env.Int(envPrefix+"NET_SNDBUF", 4<<20),
		LogLevel:        env.Str(envPrefix+"LOG_LEVEL", "info"),
	}
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
