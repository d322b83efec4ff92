// SPDX-License-Identifier: MIT

package channels

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/log"
)

// Watch reloads the directory whenever the backing file changes, so
// scheduled promotions pick up updated stream addresses. It returns
// after starting the watch goroutine, which runs until ctx is done.
func (d *Directory) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(d.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch channels file: %w", err)
	}

	logger := log.WithComponent("channels")
	logger.Info().Str(log.FieldPath, d.path).Msg("watching channel directory for changes")

	go d.watchLoop(ctx, watcher, logger)
	return nil
}

func (d *Directory) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, logger zerolog.Logger) {
	defer func() { _ = watcher.Close() }()

	// Debounce so editors that write in several bursts trigger one reload.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("channel directory watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if err := d.Load(); err != nil {
						logger.Error().Err(err).Msg("channel directory reload failed, keeping previous snapshot")
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("channel directory watcher error")
		}
	}
}
