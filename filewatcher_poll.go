//go:build !linux && !darwin

package main

import (
	"context"
	"os"
	"sync"
	"time"
)

// pollInterval is how often modification times are compared
const pollInterval = 250 * time.Millisecond

// FileWatcher polls modification times where no kernel notification API is wired up
type FileWatcher struct {
	mu       sync.Mutex
	modTimes map[string]time.Time
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	return &FileWatcher{
		modTimes: make(map[string]time.Time),
		debounce: newDebouncer(debounceDelay, onChange),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	fw.modTimes[path] = info.ModTime()
	fw.mu.Unlock()
	return nil
}

// Watch delivers change notifications until ctx is done
func (fw *FileWatcher) Watch(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fw.poll()
		case <-ctx.Done():
			return
		}
	}
}

func (fw *FileWatcher) poll() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for path, last := range fw.modTimes {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(last) {
			fw.modTimes[path] = info.ModTime()
			fw.debounce.trigger(path)
		}
	}
}

// Close stops pending callbacks and waits for a running one
func (fw *FileWatcher) Close() error {
	fw.debounce.stop()
	return nil
}
