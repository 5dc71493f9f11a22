package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// stopFile is the signal file name inside the signals directory.
const stopFile = "stop"

// StopWatcher provides the emergency stop: any process (a hotkey daemon,
// another glow invocation, the user's shell) creates a stop file in the
// signals directory and the running loop aborts at its next check. An
// fsnotify watcher picks the file up immediately; ShouldStop also stats the
// file directly in case the watcher missed it.
type StopWatcher struct {
	signalsDir string
	stopped    atomic.Bool
	watcher    *fsnotify.Watcher
	done       chan struct{}
}

// NewStopWatcher creates the signals directory and starts watching it.
// A watcher setup failure is not fatal: polling still works.
func NewStopWatcher(signalsDir string) (*StopWatcher, error) {
	if err := os.MkdirAll(signalsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create signals dir: %w", err)
	}

	sw := &StopWatcher{
		signalsDir: signalsDir,
		done:       make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sw, nil
	}
	if err := watcher.Add(signalsDir); err != nil {
		watcher.Close()
		return sw, nil
	}
	sw.watcher = watcher
	go sw.watch()
	return sw, nil
}

func (sw *StopWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == stopFile && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				sw.stopped.Store(true)
			}
		case <-sw.watcher.Errors:
			// Keep watching; polling covers missed events.
		}
	}
}

// ShouldStop reports whether a stop has been requested.
func (sw *StopWatcher) ShouldStop() bool {
	if sw.stopped.Load() {
		return true
	}
	if _, err := os.Stat(filepath.Join(sw.signalsDir, stopFile)); err == nil {
		sw.stopped.Store(true)
		return true
	}
	return false
}

// SendStop creates the stop signal file.
func (sw *StopWatcher) SendStop() error {
	path := filepath.Join(sw.signalsDir, stopFile)
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// Clear removes the signal file and resets the flag, readying the watcher
// for the next run.
func (sw *StopWatcher) Clear() {
	sw.stopped.Store(false)
	os.Remove(filepath.Join(sw.signalsDir, stopFile))
}

// Close shuts the watcher down.
func (sw *StopWatcher) Close() {
	close(sw.done)
	if sw.watcher != nil {
		sw.watcher.Close()
	}
}
