package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const configDebounce = 500 * time.Millisecond

// watchConfig re-reads path after each settled change and hands the parsed
// config to emit. Invalid intermediate saves are logged and skipped; the
// running config stays untouched until a load succeeds.
func watchConfig(ctx context.Context, path string, logger *slog.Logger, emit func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ExpandPath(path)); err != nil {
		return fmt.Errorf("watch config file: %w", err)
	}
	logger.Info("config watcher started", "path", path, "debounce", configDebounce)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Write covers in-place saves; editors that replace the file
			// emit Create.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(configDebounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			cfg, err := LoadConfigFile(path)
			if err != nil {
				logger.Warn("config reload failed, keeping running config", "err", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.Warn("reloaded config invalid, keeping running config", "err", err)
				continue
			}
			emit(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "err", err)
		}
	}
}

// runtimeMerge keeps hardware topology from the running config and takes
// the runtime-tunable sections from the fresh one. Pins, device paths and
// server endpoints need a restart to change.
func runtimeMerge(running, fresh Config) Config {
	merged := running
	merged.Strip.Brightness = fresh.Strip.Brightness
	merged.Engine = fresh.Engine
	merged.Pot.IntervalMs = fresh.Pot.IntervalMs
	merged.Pot.SmoothingMs = fresh.Pot.SmoothingMs
	merged.Pot.Threshold = fresh.Pot.Threshold
	merged.Logging = fresh.Logging
	return merged
}
