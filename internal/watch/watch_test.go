package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

func TestDebouncer_BurstCoalesced(t *testing.T) {
	var calls, events atomic.Int32

	d := NewDebouncer(100*time.Millisecond, func(n int) {
		calls.Add(1)
		events.Store(int32(n))
	})
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 10, d.Pending())

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(10), events.Load())
	assert.Zero(t, d.Pending())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(20*time.Millisecond, func(int) { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	time.Sleep(100 * time.Millisecond)
	d.Trigger()
	d.Trigger()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(2), calls.Load())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func(int) { calls.Add(1) })
	d.Trigger()
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.Zero(t, d.Pending())
}

func TestDebouncer_PanicRecovered(t *testing.T) {
	var calls atomic.Int32

	d := NewDebouncer(10*time.Millisecond, func(int) {
		calls.Add(1)
		panic("boom")
	})
	defer d.Stop()

	d.Trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

// ---------------------------------------------------------------------------
// isRelevant
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "data", "catalog.json")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"zero op", fsnotify.Event{Name: path}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.json"), Op: fsnotify.Write}, false},
		{"swap file", fsnotify.Event{Name: path + ".swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevant(tt.event, path))
		})
	}
}

// ---------------------------------------------------------------------------
// Watch
// ---------------------------------------------------------------------------

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(p, []byte("[]"), 0o600))

	changed := make(chan int, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{Path: p, Debounce: 20 * time.Millisecond}, func(events int) {
			select {
			case changed <- events:
			default:
			}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("[]"), 0o600))
	require.NoError(t, os.WriteFile(p, []byte(`[{"id": 1}]`), 0o600))

	select {
	case events := <-changed:
		assert.Positive(t, events)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	assert.NoError(t, <-done)
}
