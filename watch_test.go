package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyproto/adder/internal/engine"
)

// syncBuffer lets the rebuild goroutine and the test share stderr
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchRecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	in := writeSource(t, dir, "w.snek", "(add1 1)")
	out := filepath.Join(dir, "w.s")

	stderr := &syncBuffer{}
	cctx := &CommandContext{
		Config: testConfig(),
		Stdin:  strings.NewReader(""),
		Stdout: &bytes.Buffer{},
		Stderr: stderr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmdWatch(ctx, cctx, in, out) }()

	valueOf := func() (int64, bool) {
		data, err := os.ReadFile(out)
		if err != nil {
			return 0, false
		}
		v, err := engine.ExecuteAssembly(string(data))
		return v, err == nil
	}

	waitFor(t, "the initial build", func() bool {
		v, ok := valueOf()
		return ok && v == 2
	})
	waitFor(t, "the watcher to start", func() bool {
		return strings.Contains(stderr.String(), "Watching")
	})

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(in, []byte("(negate 7)"), 0o644))
	require.NoError(t, os.Chtimes(in, future, future))

	waitFor(t, "the rebuild", func() bool {
		v, ok := valueOf()
		return ok && v == -7
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("cmdWatch did not return after cancel")
	}
	assert.Contains(t, stderr.String(), "changed, recompiling")
}

func TestDebouncerStopWaitsForRunningCallback(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool

	d := newDebouncer(time.Millisecond, func(string) {
		close(started)
		<-release
		finished = true
	})
	d.trigger("x")
	<-started

	stopped := make(chan struct{})
	go func() {
		d.stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while the callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.True(t, finished)
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	calls := make(chan string, 4)
	d := newDebouncer(time.Hour, func(p string) { calls <- p })
	d.trigger("a")
	d.trigger("a")
	d.trigger("b")
	d.stop()
	d.trigger("c")

	assert.Empty(t, calls)
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	calls := make(chan string, 4)
	d := newDebouncer(30*time.Millisecond, func(p string) { calls <- p })
	defer d.stop()

	for range 5 {
		d.trigger("a")
	}
	select {
	case p := <-calls:
		assert.Equal(t, "a", p)
	case <-time.After(2 * time.Second):
		t.Fatal("no callback")
	}
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, calls)
}
