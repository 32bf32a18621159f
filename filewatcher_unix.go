// Completion: 100% - Platform-specific module complete
//go:build linux
// +build linux

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// inotifyPoll is how long Watch sleeps when the non-blocking descriptor is empty
const inotifyPoll = 100 * time.Millisecond

// FileWatcher reports source file changes through inotify
type FileWatcher struct {
	fd       int
	mu       sync.Mutex
	sources  map[int]string // watch descriptor to the path given to AddFile
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("cannot start watching: inotify: %w", err)
	}
	return &FileWatcher{
		fd:       fd,
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

	wd, err := unix.InotifyAddWatch(fw.fd, absPath, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fw.mu.Lock()
	fw.sources[wd] = path
	fw.mu.Unlock()
	return nil
}

// Watch delivers change notifications until ctx is done
func (fw *FileWatcher) Watch(ctx context.Context) {
	buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*16)

	for ctx.Err() == nil {
		n, err := unix.Read(fw.fd, buf)
		switch {
		case err == unix.EAGAIN || err == unix.EINTR:
			time.Sleep(inotifyPoll)
			continue
		case err != nil:
			watchLog("watch: reading inotify events: %v\n", err)
			time.Sleep(inotifyPoll)
			continue
		}

		for off := 0; off+unix.SizeofInotifyEvent <= n; {
			ev := (*unix.InotifyEvent)(unsafe.Pointer(&buf[off]))
			off += unix.SizeofInotifyEvent + int(ev.Len)
			if ev.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) == 0 {
				continue
			}

			fw.mu.Lock()
			path, ok := fw.sources[int(ev.Wd)]
			fw.mu.Unlock()
			if ok {
				fw.debounce.trigger(path)
			}
		}
	}
}

// Close stops pending callbacks, waits for a running one and releases the descriptor
func (fw *FileWatcher) Close() error {
	fw.debounce.stop()
	return unix.Close(fw.fd)
}
