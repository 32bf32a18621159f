package main

import (
	"sync"
	"time"
)

// debounceDelay collapses the bursts of events a single save produces
const debounceDelay = 200 * time.Millisecond

// debouncer calls onChange once per path after events for that path have
// been quiet for delay. After stop returns, no call is running or pending.
type debouncer struct {
	delay    time.Duration
	onChange func(string)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration, onChange func(string)) *debouncer {
	return &debouncer{
		delay:    delay,
		onChange: onChange,
		timers:   make(map[string]*time.Timer),
	}
}

// trigger (re)starts the quiet period for path
func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[path]; ok && t.Stop() {
		d.pending.Done()
	}

	d.pending.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.pending.Done()

		d.mu.Lock()
		if d.timers[path] == t {
			delete(d.timers, path)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			d.onChange(path)
		}
	})
	d.timers[path] = t
}

// stop cancels pending calls and waits for a running one to return.
// It must not be called from onChange.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.timers {
		if t.Stop() {
			d.pending.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()

	d.pending.Wait()
}
