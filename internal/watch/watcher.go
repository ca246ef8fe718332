// Package watch observes the data directory and reports when the card or
// settings documents change on disk, whether through the API or by hand.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an atomic rename produces.
const DefaultDebounce = 200 * time.Millisecond

// ChangeCallback is called once per changed document name after the
// debounce window closes.
type ChangeCallback func(file string)

// Watch starts an fsnotify watcher on dir and reports changes to any of
// files (base names inside dir) until ctx is cancelled. Temp files and
// other names are ignored.
func Watch(ctx context.Context, dir string, files []string, debounce time.Duration, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory is watched rather than the files themselves: atomic
	// writes replace the inode, which would drop a per-file watch.
	if err := w.Add(dir); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("watcher: started", slog.String("dir", dir), slog.Any("files", files))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			clear(pending)
			for _, name := range names {
				logger.Debug("watcher: document changed", slog.String("file", name))
				if cb != nil {
					cb(name)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !slices.Contains(files, name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
