package main

import (
	"log/slog"
	"strings"

	"github.com/jive-vlbi/vlbid/internal/config"
)

// runtimeConfig bundles internal/config's process-wide defaults with the
// slog level resolved from the CLI overrides, following the teacher's
// main.go pattern of merging several flag sources (e.g. -v/-verbose)
// into one effective setting before anything else runs.
type runtimeConfig struct {
	config.Config
	slogLevel slog.Level
}

func loadConfig(logLevelFlag string, verbose bool) runtimeConfig {
	cfg := config.Default()

	level := cfg.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	if verbose {
		level = "debug"
	}

	return runtimeConfig{Config: cfg, slogLevel: parseLevel(level)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
