package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/backend"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Editors and the store itself replace the file in several steps.
const watchDebounce = 100 * time.Millisecond

type WatchCmd struct {
	PeriodFlags
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	year, month := cmd.resolve()
	if err := core.ValidatePeriod(year, month); err != nil {
		return fail(ctx.Stderr, err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(runCtx, ctx.Command(), globals, ctx.Stderr)
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	defer sess.Close()

	if sess.backend != backend.JSONBackend {
		return failf(ctx.Stderr, "watch needs the json backend (current backend: %s)", sess.backend)
	}

	path, err := filepath.Abs(sess.location)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return failf(ctx.Stderr, "failed to create file watcher: %v", err)
	}
	// The file is replaced by rename on every save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return failf(ctx.Stderr, "failed to watch %s: %v", filepath.Dir(path), err)
	}

	logger := sess.logger.WithComponent(log.ComponentWatch)
	render := func() {
		_, _ = fmt.Fprintln(ctx.Stdout, dimStyle.Render(fmt.Sprintf("── %s ──", time.Now().Format("15:04:05"))))
		_ = writeSummary(ctx.Stdout, ctx.Stderr, sess.store, year, month, sess.cfg.CurrencySymbol)
	}
	reload := func() {
		if err := sess.store.Reload(runCtx); err != nil {
			printError(ctx.Stderr, describe(err))
			return
		}
		render()
	}

	render()
	printInfof(ctx.Stderr, "Watching %s (Ctrl+C to stop)", path)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		<-gctx.Done()
		return watcher.Close()
	})
	g.Go(func() error {
		return watchLoop(gctx, watcher.Events, watcher.Errors, path, watchDebounce, reload, func(err error) {
			logger.Warn("File watcher error", log.FieldOperation, log.OpWatch, log.FieldError, err)
		})
	})

	if err := g.Wait(); err != nil {
		return fail(ctx.Stderr, err)
	}
	return nil
}

// watchLoop calls onChange once per burst of events touching path, after
// the burst has been quiet for debounce. It returns when ctx is done or the
// event channel is closed.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, path string, debounce time.Duration, onChange func(), onError func(error)) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			onError(err)

		case <-timer.C:
			onChange()
		}
	}
}
