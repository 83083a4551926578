package ui

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the bursts of events an atomic save produces
// (temp write, rename, checksum write) into one signal.
const debounceDelay = 250 * time.Millisecond

// WatchFile signals on the returned channel whenever the file at path is
// written or replaced. The store saves by renaming a temp file over the
// data file, so the parent directory is watched and events are filtered
// by base name. The second return value stops the watcher.
func WatchFile(path string) (<-chan struct{}, func() error, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan struct{}, 1)
	debouncer := newSignalDebouncer(ch, debounceDelay)
	name := filepath.Base(abs)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debouncer.Trigger()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	closeFn := func() error {
		debouncer.Stop()
		return watcher.Close()
	}
	return ch, closeFn, nil
}

// signalDebouncer coalesces rapid triggers into a single non-blocking
// send after a quiet period.
type signalDebouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	ch      chan<- struct{}
	delay   time.Duration
	stopped bool
}

func newSignalDebouncer(ch chan<- struct{}, delay time.Duration) *signalDebouncer {
	return &signalDebouncer{ch: ch, delay: delay}
}

// Trigger restarts the quiet period.
func (d *signalDebouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *signalDebouncer) fire() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}
	// Drop the signal if the receiver has not consumed the last one.
	select {
	case d.ch <- struct{}{}:
	default:
	}
}

// Stop prevents further signals.
func (d *signalDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
