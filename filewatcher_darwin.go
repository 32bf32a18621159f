//go:build darwin
// +build darwin

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// FileWatcher reports source file changes through kqueue vnode events
type FileWatcher struct {
	kq       int
	mu       sync.Mutex
	sources  map[int]string // open descriptor to the path given to AddFile
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("cannot start watching: kqueue: %w", err)
	}
	return &FileWatcher{
		kq:       kq,
		sources:  make(map[int]string),
		debounce: newDebouncer(debounceDelay, onChange),
	}, nil
}

// AddFile starts watching path. Callbacks receive path exactly as given.
func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fd, err := unix.Open(absPath, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	change := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: unix.NOTE_WRITE | unix.NOTE_ATTRIB,
	}
	if _, err := unix.Kevent(fw.kq, []unix.Kevent_t{change}, nil, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fw.mu.Lock()
	fw.sources[fd] = path
	fw.mu.Unlock()
	return nil
}

// Watch delivers change notifications until ctx is done
func (fw *FileWatcher) Watch(ctx context.Context) {
	events := make([]unix.Kevent_t, 16)
	// a finite wait lets the loop notice cancellation
	timeout := unix.NsecToTimespec((100 * time.Millisecond).Nanoseconds())

	for ctx.Err() == nil {
		n, err := unix.Kevent(fw.kq, nil, events, &timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			watchLog("watch: reading kqueue events: %v\n", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}

		for _, ev := range events[:n] {
			fw.mu.Lock()
			path, ok := fw.sources[int(ev.Ident)]
			fw.mu.Unlock()
			if ok {
				fw.debounce.trigger(path)
			}
		}
	}
}

// Close stops pending callbacks, waits for a running one and releases every descriptor
func (fw *FileWatcher) Close() error {
	fw.debounce.stop()

	fw.mu.Lock()
	for fd := range fw.sources {
		unix.Close(fd)
	}
	fw.mu.Unlock()
	return unix.Close(fw.kq)
}
