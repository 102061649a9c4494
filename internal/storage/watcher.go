package storage

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"go.uber.org/zap"
)

// Watcher publishes a signal whenever the session file changes on disk.
// This is the cross-process analogue of a browser storage event: another
// agent sharing the state directory logs in or out, and every subscriber
// re-reads the file. Signals are coalesced; subscribers read state from
// the file, never from the event itself.
type Watcher struct {
	fsw    *fsnotify.Watcher
	target string
	events chan struct{}
	done   chan struct{}
}

// NewWatcher watches the directory containing the session file. The
// directory (not the file) is watched so atomic rename-replace writes and
// removals are observed reliably.
func NewWatcher(file *SessionFile) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(file.Dir()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch state directory: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		target: filepath.Clean(file.Path()),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// Events returns the change signal channel
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce: one pending signal is enough, subscribers re-read the file
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Session file watcher error", zap.Error(err))
		}
	}
}
