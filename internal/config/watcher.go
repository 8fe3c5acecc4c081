package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/gimbal/internal/core/observability/log"
)

const DefaultPollInterval = time.Second

// Watcher polls a config file and emits it again whenever its content
// changes and still validates.
type Watcher struct {
	path     string
	interval time.Duration
	logger   log.Log
	sum      uint64
}

func NewWatcher(path string, interval time.Duration, logger log.Log) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		path:     path,
		interval: interval,
		logger:   logger.With(log.String("component", "config"), log.String("path", path)),
	}
}

// Watch blocks until ctx is done. The content present when Watch starts is
// the baseline and is not emitted.
func (w *Watcher) Watch(ctx context.Context, out chan<- *Config) error {
	if data, err := os.ReadFile(w.path); err == nil {
		w.sum = xxhash.Sum64(data)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cfg, changed := w.poll()
			if !changed {
				continue
			}
			select {
			case out <- cfg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (w *Watcher) poll() (*Config, bool) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("config unreadable", log.Error(err))
		return nil, false
	}
	sum := xxhash.Sum64(data)
	if sum == w.sum {
		return nil, false
	}
	w.sum = sum

	cfg, err := parse(data, filepath.Ext(w.path), filepath.Dir(w.path))
	if err != nil {
		w.logger.Warn("config change rejected", log.Error(err))
		return nil, false
	}
	w.logger.Info("config changed")
	return cfg, true
}
