package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the bursts of events editors emit on a single save.
const debounce = 200 * time.Millisecond

// Watch monitors path and calls onChange with the newly loaded Config after
// the file changes. Rapid event bursts are coalesced so a single save
// triggers one reload. Runs until ctx is cancelled.
//
// A failed reload (e.g. invalid YAML) is logged and onChange is not called;
// the previous config stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	var pending *time.Timer
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic saves replace the file, so Create counts as a change.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(debounce)
				reload = pending.C
				continue
			}
			// The timer may have fired with its tick still unread; drain it
			// so the Reset starts a full window instead of delivering the
			// stale tick immediately.
			if !pending.Stop() {
				select {
				case <-pending.C:
				default:
				}
			}
			pending.Reset(debounce)

		case <-reload:
			pending = nil
			reload = nil

			// An atomic save may have replaced the inode; re-arm the watch
			// before loading so no subsequent change is missed.
			_ = watcher.Add(path)

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
