package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/metricsync/internal/logfields"
)

const watchDebounce = 500 * time.Millisecond

// watchValidate validates the catalogue, then keeps watching it and
// re-validates after every change until the context is cancelled. Validation
// failures are reported and watching continues, so an editor can iterate on
// the file with live feedback.
func watchValidate(ctx context.Context, configPath string) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve catalogue path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watching the directory survives editors that replace the file on save.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch catalogue directory: %w", err)
	}

	validate := func() {
		if err := runValidate(absPath); err != nil {
			slog.Error("catalogue is invalid", logfields.Error(err))
		}
	}
	validate()

	fileName := filepath.Base(absPath)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	pending := make(chan struct{}, 1)
	slog.Info("watching catalogue", logfields.Path(absPath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			validate()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors fire bursts of events per save; collapse them.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}
