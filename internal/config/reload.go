// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/streamdec/internal/log"
)

const defaultDebounce = 500 * time.Millisecond

// ConfigHolder holds the active configuration and reloads it from file.
type ConfigHolder struct {
	mu       sync.RWMutex
	current  AppConfig
	loader   *Loader
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration
	done     chan struct{}

	reloadMu        sync.RWMutex
	reloadListeners []chan<- AppConfig
}

func NewConfigHolder(initial AppConfig, loader *Loader) *ConfigHolder {
	return &ConfigHolder{
		current:  initial,
		loader:   loader,
		logger:   log.WithComponent("config"),
		debounce: defaultDebounce,
	}
}

// Get returns the current configuration.
func (h *ConfigHolder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads and validates the file. An invalid file leaves the current
// configuration in place.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().Err(err).Str(log.FieldEvent, "config.reload_failed").Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}
	if err := Validate(newCfg); err != nil {
		h.logger.Error().Err(err).Str(log.FieldEvent, "config.validation_failed").Msg("new configuration failed validation")
		return fmt.Errorf("validate config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	if diff := cmp.Diff(oldCfg, newCfg); diff != "" {
		h.logger.Info().Str("diff", diff).Msg("configuration changed")
	}
	h.notifyListeners(newCfg)
	h.logger.Info().Str(log.FieldEvent, "config.reload_success").Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher watches the config file until ctx is done. It is a no-op
// when no file is configured. The directory is watched so editors that
// replace the file by rename are picked up.
func (h *ConfigHolder) StartWatcher(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().Str(log.FieldEvent, "config.watcher_disabled").Msg("config file watcher disabled (ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.watcher = watcher
	h.done = make(chan struct{})

	h.logger.Info().Str(log.FieldEvent, "config.watcher_started").Str("path", path).Msg("watching config file for changes")
	go h.watchLoop(ctx, filepath.Clean(path))
	return nil
}

func (h *ConfigHolder) watchLoop(ctx context.Context, path string) {
	defer close(h.done)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = h.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().Str(log.FieldEvent, "config.file_changed").Str("op", event.Op.String()).Msg("config file changed")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(h.debounce, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Error().Err(err).Str(log.FieldEvent, "config.auto_reload_failed").Msg("automatic config reload failed")
				}
			})

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Str(log.FieldEvent, "config.watcher_error").Msg("config watcher error")
		}
	}
}

// Wait blocks until the watcher goroutine has exited.
func (h *ConfigHolder) Wait() {
	if h.done != nil {
		<-h.done
	}
}

// RegisterListener registers a channel that receives every successfully
// reloaded configuration. Sends never block.
func (h *ConfigHolder) RegisterListener(ch chan<- AppConfig) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

func (h *ConfigHolder) notifyListeners(newCfg AppConfig) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()
	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().Str(log.FieldEvent, "config.listener_skip").Msg("skipped notifying listener (channel full)")
		}
	}
}
