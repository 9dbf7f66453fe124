// internal/config/watcher.go
package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads the configuration file when it changes on disk. The
// server uses it to pick up ruleset overrides without a restart.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	logger     logrus.FieldLogger
	callbacks  []func(*Config)
	mu         sync.RWMutex
	stopped    bool
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(configPath string, logger logrus.FieldLogger) (*Watcher, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:    fsw,
		configPath: configPath,
		logger:     logger.WithField("config", configPath),
		callbacks:  make([]func(*Config), 0),
	}

	if err := fsw.Add(configPath); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	// Watch the directory as well, for editors that replace the file.
	if err := fsw.Add(filepath.Dir(configPath)); err != nil {
		w.logger.WithError(err).Warn("failed to watch config directory")
	}

	go w.watch()

	return w, nil
}

// OnChange registers a callback invoked with each successfully reloaded
// configuration.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name == w.configPath && (event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create) {
				w.handleChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("config watcher error")
		}
	}
}

func (w *Watcher) handleChange() {
	w.mu.RLock()
	if w.stopped {
		w.mu.RUnlock()
		return
	}
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	config, err := LoadFromFile(w.configPath)
	if err != nil {
		w.logger.WithError(err).Error("failed to reload config")
		return
	}

	w.logger.Info("configuration reloaded")
	for _, callback := range callbacks {
		callback(config)
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	return w.watcher.Close()
}
