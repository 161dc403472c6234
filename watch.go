package backdrop

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher reloads a config file when it changes on disk and delivers
// each successfully parsed Config on Changes. The frame loop drains the
// channel; only the newest pending config is kept.
type ConfigWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	log      *zap.Logger
	debounce time.Duration
	changes  chan *Config
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewConfigWatcher creates a watcher for path. Call Start to begin.
func NewConfigWatcher(path string, log *zap.Logger) (*ConfigWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	return &ConfigWatcher{
		watcher:  w,
		path:     abs,
		log:      log,
		debounce: 150 * time.Millisecond,
		changes:  make(chan *Config, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers reloaded configs.
func (cw *ConfigWatcher) Changes() <-chan *Config { return cw.changes }

// Start watches the file's directory, so editors that replace the file on
// save are followed too. It does not block.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return nil
	}
	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("config watcher: watch %s: %w", cw.path, err)
	}
	cw.running = true
	go cw.run(ctx)
	cw.log.Debug("watching config", zap.String("path", cw.path))
	return nil
}

// Close stops the watcher and releases its resources.
func (cw *ConfigWatcher) Close() error {
	cw.mu.Lock()
	running := cw.running
	cw.running = false
	cw.mu.Unlock()
	if running {
		close(cw.stopCh)
		<-cw.doneCh
	}
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Rapid saves collapse into one reload.
			pending = time.After(cw.debounce)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("config watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			cw.reload()
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.log.Warn("config reload failed; keeping previous settings", zap.Error(err))
		return
	}
	// Replace an undelivered config with the newer one.
	select {
	case <-cw.changes:
	default:
	}
	cw.changes <- cfg
	cw.log.Info("config reloaded", zap.String("path", cw.path))
}
