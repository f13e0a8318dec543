package storage

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to one key of a FileSlot made by any process.
// Bursts of events are coalesced: at most one change is pending at a time.
type Watcher struct {
	fw      *fsnotify.Watcher
	path    string
	changes chan struct{}
	errs    chan error
	done    chan struct{}
}

// Watch watches the file backing key. The directory is watched rather than
// the file itself because Set replaces the file by rename.
func (s *FileSlot) Watch(key string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(s.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	w := &Watcher{
		fw:      fw,
		path:    filepath.Clean(s.Path(key)),
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes receives a value after the watched key was written, replaced or removed.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Errors receives watcher failures.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.errs)
	defer close(w.changes)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
