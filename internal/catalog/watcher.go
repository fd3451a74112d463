package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/launchpad/internal/debug"
)

// Watcher reports application directories whose desktop entries changed,
// debounced so an install touching many files yields one notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watching map[string]bool
	notify   chan string
	done     chan struct{}
	debounce time.Duration
}

// NewWatcher starts a watcher. debounce <= 0 uses 500ms.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	cw := &Watcher{
		watcher:  w,
		watching: make(map[string]bool),
		notify:   make(chan string, 10),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go cw.run()
	return cw, nil
}

func relevant(ev fsnotify.Event) bool {
	if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write)) {
		return false
	}
	return strings.HasSuffix(ev.Name, ".desktop")
}

func (cw *Watcher) run() {
	lastEvent := make(map[string]time.Time)
	ticker := time.NewTicker(cw.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-cw.done:
			return

		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			dir := filepath.Dir(ev.Name)
			cw.mu.Lock()
			if cw.watching[dir] {
				lastEvent[dir] = time.Now()
				debug.Log(debug.CATALOG, "FSNotify event: %s on %s", ev.Op, ev.Name)
			}
			cw.mu.Unlock()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.CATALOG, "FSNotify error: %v", err)

		case now := <-ticker.C:
			for dir, last := range lastEvent {
				if now.Sub(last) < cw.debounce {
					continue
				}
				select {
				case cw.notify <- dir:
					debug.Log(debug.CATALOG, "applications changed in %s", dir)
				default:
					// Channel full; a rescan is already pending.
				}
				delete(lastEvent, dir)
			}
		}
	}
}

// Watch adds every existing directory in dirs.
func (cw *Watcher) Watch(dirs ...string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, dir := range dirs {
		if cw.watching[dir] {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := cw.watcher.Add(dir); err != nil {
			return err
		}
		cw.watching[dir] = true
		debug.Log(debug.CATALOG, "Now watching directory: %s", dir)
	}
	return nil
}

// Watched lists the watched directories.
func (cw *Watcher) Watched() []string {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	out := make([]string, 0, len(cw.watching))
	for d := range cw.watching {
		out = append(out, d)
	}
	return out
}

// Notify returns the channel receiving changed directories.
func (cw *Watcher) Notify() <-chan string {
	return cw.notify
}

// Close shuts down the watcher
func (cw *Watcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
