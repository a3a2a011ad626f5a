// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It watches a single dump directory
// (non-recursive), skips hidden files and subdirectories, and debounces on
// the trailing edge: each event resets a per-file timer and the scan fires
// only after the file has been quiet for the interval, so a dump written in
// several syscalls is scanned once, after the last write.
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval is how long a file must stay quiet before it is scanned.
// Dumps are large, so the window is generous compared to editor saves.
const debounceInterval = 500 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
}

// NewWatcher creates a new dump-directory watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:     fw,
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. onDump is called with the absolute path of
// each newly created or rewritten regular file, once the file has been
// quiet for the debounce interval.
func (w *Watcher) Watch(dir string, onDump func(path string)) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absDir)
	}
	if err := w.fw.Add(absDir); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if shouldIgnore(event.Name) {
					continue
				}
				w.touch(event.Name, onDump)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// touch resets the debounce timer for path, arming it on the first event.
func (w *Watcher) touch(path string, onDump func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(debounceInterval)
		return
	}
	w.timers[path] = time.AfterFunc(debounceInterval, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		onDump(path)
	})
}

// Stop ends monitoring, cancels pending scans, and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnore filters hidden files and anything that is not a regular file.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return true // removed before we could look
	}
	return !info.Mode().IsRegular()
}
