package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it is written and delivers each valid config on
// the returned channel. Invalid files are logged and skipped. Only the newest
// pending config is kept, so a slow reader never blocks the watcher. The
// channel is closed when ctx ends.
//
// Each override runs on a reloaded config before it is validated and
// delivered, so command line settings survive a reload.
func Watch(ctx context.Context, path string, logger *zap.Logger, overrides ...func(*Config)) (<-chan *Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	out := make(chan *Config, 1)
	target := filepath.Clean(path)

	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := load(path, overrides)
				if err != nil {
					logger.Warn("Ignoring config reload", zap.String("path", path), zap.Error(err))
					continue
				}
				logger.Debug("Config reloaded", zap.String("path", path))
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}

func load(path string, overrides []func(*Config)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil || len(overrides) == 0 {
		return cfg, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
