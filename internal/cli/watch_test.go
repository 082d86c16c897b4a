package cli

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/fsnotify/fsnotify"
)

func TestWatchLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")

	t.Run("DebouncesBurst", func(t *testing.T) {
		events := make(chan fsnotify.Event)
		errs := make(chan error)
		changed := make(chan struct{}, 10)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- watchLoop(ctx, events, errs, path, 20*time.Millisecond, func() { changed <- struct{}{} }, func(error) {})
		}()

		events <- fsnotify.Event{Name: path + ".tmp", Op: fsnotify.Create}
		events <- fsnotify.Event{Name: path, Op: fsnotify.Create}
		events <- fsnotify.Event{Name: path, Op: fsnotify.Write}
		events <- fsnotify.Event{Name: path, Op: fsnotify.Rename}

		select {
		case <-changed:
		case <-time.After(2 * time.Second):
			t.Fatal("onChange was not called")
		}
		select {
		case <-changed:
			t.Fatal("burst should trigger a single reload")
		case <-time.After(100 * time.Millisecond):
		}

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("IgnoresOtherFiles", func(t *testing.T) {
		events := make(chan fsnotify.Event)
		var calls atomic.Int32

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- watchLoop(ctx, events, nil, path, 10*time.Millisecond, func() { calls.Add(1) }, func(error) {})
		}()

		events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.json"), Op: fsnotify.Write}
		events <- fsnotify.Event{Name: path, Op: fsnotify.Chmod}
		time.Sleep(50 * time.Millisecond)
		cancel()

		assert.NoError(t, <-done)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("ReportsErrors", func(t *testing.T) {
		errs := make(chan error, 1)
		reported := make(chan error, 1)
		boom := errors.New("queue overflow")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- watchLoop(ctx, nil, errs, path, time.Millisecond, func() {}, func(err error) { reported <- err })
		}()

		errs <- boom
		assert.Equal(t, boom, <-reported)
		close(errs)
		assert.NoError(t, <-done)
	})

	t.Run("StopsWhenEventsClosed", func(t *testing.T) {
		events := make(chan fsnotify.Event)
		close(events)
		err := watchLoop(context.Background(), events, nil, path, time.Millisecond, func() {}, func(error) {})
		assert.NoError(t, err)
	})
}
