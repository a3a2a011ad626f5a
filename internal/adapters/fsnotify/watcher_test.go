package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls the events channel with a deadline generous enough for slow CI.
func waitFor(t *testing.T, events <-chan string) string {
	t.Helper()
	select {
	case p := <-events:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestWatchReportsNewDump(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	dump := filepath.Join(dir, "core.1234")
	require.NoError(t, os.WriteFile(dump, []byte{0xEA, 0x55}, 0644))

	assert.Equal(t, dump, waitFor(t, events))
}

func TestWatchIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte{1}, 0644))
	dump := filepath.Join(dir, "visible.dmp")
	require.NoError(t, os.WriteFile(dump, []byte{2}, 0644))

	// Only the visible dump surfaces.
	assert.Equal(t, dump, waitFor(t, events))
	select {
	case p := <-events:
		t.Fatalf("unexpected extra event: %s", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchCoalescesWriteBurst(t *testing.T) {
	// A file written in several quick syscalls must scan once, after the
	// last write.
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	dump := filepath.Join(dir, "core.77")
	for i := 1; i <= 3; i++ {
		require.NoError(t, os.WriteFile(dump, make([]byte, i*64), 0644))
	}

	assert.Equal(t, dump, waitFor(t, events))
	select {
	case p := <-events:
		t.Fatalf("burst produced a second scan: %s", p)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestStopCancelsPendingScan(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)

	events := make(chan string, 16)
	require.NoError(t, w.Watch(dir, func(path string) { events <- path }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.78"), []byte{1}, 0644))
	require.NoError(t, w.Stop())

	select {
	case p := <-events:
		t.Fatalf("scan fired after Stop: %s", p)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()
	require.Error(t, w.Watch(filepath.Join(t.TempDir(), "nope"), func(string) {}))
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
