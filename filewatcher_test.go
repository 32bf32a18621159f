package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileWatcherNotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.snek")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))

	changed := make(chan string, 4)
	fw, err := NewFileWatcher(func(p string) { changed <- p })
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		fw.Watch(ctx)
		close(done)
	}()

	// Give the polling implementation a different mtime to notice
	time.Sleep(50 * time.Millisecond)
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("(add1 1)"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case p := <-changed:
		require.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
