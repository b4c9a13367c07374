package store

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-timesheet/internal/util"
)

// ChangeEvent reports that the state file changed on disk
type ChangeEvent struct {
	Path      string
	Operation string
}

// Watcher reports changes of one file. Bursts of events within the debounce window are
// coalesced into a single ChangeEvent.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	events   chan ChangeEvent
}

// NewWatcher watches path. The parent directory is watched because atomic writes replace
// the file instead of modifying it.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := util.EnsureDir(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		target:   target,
		debounce: debounce,
		events:   make(chan ChangeEvent, 1),
	}

	go w.processEvents()

	return w, nil
}

func (w *Watcher) processEvents() {
	defer close(w.events)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending ChangeEvent
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.target {
				continue
			}

			pending = ChangeEvent{Path: event.Name, Operation: event.Op.String()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.events <- pending:
			default:
				// a change is already queued
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("State file monitoring error: " + err.Error())
		}
	}
}

// Events delivers coalesced change notifications until Close
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
