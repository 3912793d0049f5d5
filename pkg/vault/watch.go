package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the vault directory and invokes fn with a fresh index
// whenever a markdown file is created, modified, renamed, or removed. An
// initial scan is delivered before the first event.
//
// Watch blocks until ctx is canceled or the watcher fails.
func Watch(ctx context.Context, dir string, fn func([]NoteMeta)) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("vault: create directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("vault: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("vault: watch %s: %w", dir, err)
	}

	rescan := func() {
		notes, err := Scan(dir)
		if err != nil {
			slog.Warn("vault: rescan failed", "dir", dir, "err", err)
			return
		}
		fn(notes)
	}
	rescan()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != Extension {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				slog.Debug("vault: change detected", "file", filepath.Base(event.Name), "op", event.Op.String())
				rescan()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("vault: watcher error", "err", err)
		}
	}
}
