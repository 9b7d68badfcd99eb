package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roompulse/roompulse/internal/config"
)

// Watch monitors the log directory and calls onChange after the collector
// writes to any of the three log files, debounced so one scrape cycle (which
// touches several files in quick succession) triggers a single
// recomputation. It runs until ctx is cancelled.
func Watch(ctx context.Context, cfg *config.Config, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the files: collectors that write via rename
	// (atomic save) replace the inode and a per-file watch would go stale.
	if err := watcher.Add(cfg.Logs.Dir); err != nil {
		return err
	}

	interesting := map[string]struct{}{
		cfg.Logs.ActivitiesPath(): {},
		cfg.Logs.PresencePath():   {},
		cfg.Logs.SnapshotsPath():  {},
	}

	slog.Info("pipeline: watching log directory", "dir", cfg.Logs.Dir)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, ok := interesting[event.Name]; !ok {
				continue
			}
			// Restart the debounce clock on every relevant write.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cfg.Serve.RecomputeDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("pipeline: watcher error", "err", err)
		}
	}
}
