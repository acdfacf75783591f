// Package watcher detects edits to the reference document so the embedding
// cache can be rebuilt without restarting the bot.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"docbot/internal/logger"
)

// debounce window: editors often emit several write events per save.
var settleDelay = 2 * time.Second

// DocumentWatcher watches the directory containing the reference document
// and calls onChange after the file is written, created or renamed into
// place. fsnotify watches directories, not files, which also survives the
// replace-by-rename pattern most editors use.
type DocumentWatcher struct {
	watcher  *fsnotify.Watcher
	pattern  string
	onChange func()
}

// New creates a watcher for the document at path.
func New(path string, onChange func()) (*DocumentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &DocumentWatcher{
		watcher:  w,
		pattern:  abs,
		onChange: onChange,
	}, nil
}

// Run processes events until the context is cancelled.
func (w *DocumentWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if matched, err := doublestar.PathMatch(w.pattern, abs); err != nil || !matched {
				continue
			}

			logger.Debug("document event: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(settleDelay, func() {
				logger.Info("reference document changed, refreshing cache")
				w.onChange()
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// Stop closes the underlying watcher.
func (w *DocumentWatcher) Stop() error {
	return w.watcher.Close()
}
