package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// logLevel backs every handler so a config reload can change verbosity
// without rebuilding loggers mid-run.
var logLevel = &slog.LevelVar{}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// setupLogger builds the root logger: text records on stderr, or the
// systemd journal when configured and present. The returned logger is also
// installed as the slog default.
func setupLogger(cfg LoggingConfig) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logLevel.Set(level)

	var handler slog.Handler
	if cfg.Journal && journalAvailable() {
		handler = newJournalHandler(logLevel)
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// applyLogLevel is the hot-reload path; only verbosity changes at runtime,
// the handler itself stays.
func applyLogLevel(s string, logger *slog.Logger) {
	level, err := parseLogLevel(s)
	if err != nil {
		logger.Warn("ignoring reloaded log level", "err", err)
		return
	}
	if level != logLevel.Level() {
		logLevel.Set(level)
		logger.Info("log level changed", "level", level.String())
	}
}
