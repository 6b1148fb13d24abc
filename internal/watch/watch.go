// Package watch observes a lock file from the outside, reporting when
// it appears, changes, or is removed. It never touches the lock
// itself, so watching cannot interfere with acquisition.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mooringErrors "github.com/cameronsjo/mooring/internal/errors"
)

// EventType classifies a lock file observation.
type EventType int

const (
	// Created means the lock file appeared, so some process opened
	// the lock (successfully or not; a failed attempt also creates
	// the file).
	Created EventType = iota

	// Updated means the lock file content changed, typically a
	// holder stamping its identity.
	Updated

	// Removed means the lock file is gone, which follows a
	// successful unlock.
	Removed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a single observation of the watched lock file.
type Event struct {
	Path string
	Type EventType
	At   time.Time
}

// Watcher streams Events for one lock file path.
type Watcher struct {
	path   string
	fs     *fsnotify.Watcher
	events chan Event
}

// New creates a Watcher for the lock file at path. The containing
// directory is watched rather than the file, so creation and removal
// of the file are visible; the directory must exist.
func New(path string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mooringErrors.Wrap(err, "create watcher")
	}

	if err := fs.Add(filepath.Dir(path)); err != nil {
		_ = fs.Close()
		return nil, mooringErrors.Wrapf(err, "watch %s", filepath.Dir(path))
	}

	return &Watcher{
		path:   filepath.Clean(path),
		fs:     fs,
		events: make(chan Event, 16),
	}, nil
}

// Events returns the channel of observations. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run delivers events until the context is cancelled or the
// underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if e, relevant := convert(event); relevant {
				select {
				case w.events <- e:
				case <-ctx.Done():
					return nil
				}
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return mooringErrors.Wrapf(err, "watch %s", w.path)
		}
	}
}

// convert maps a filesystem notification onto a lock observation.
func convert(event fsnotify.Event) (Event, bool) {
	var t EventType
	switch {
	case event.Has(fsnotify.Create):
		t = Created
	case event.Has(fsnotify.Write):
		t = Updated
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		t = Removed
	default:
		return Event{}, false
	}

	return Event{
		Path: event.Name,
		Type: t,
		At:   time.Now(),
	}, true
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
