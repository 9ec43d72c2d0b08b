// Package watch re-runs the render pipeline when source documents change.
//
// A single event loop owns both the filesystem trigger (fsnotify, debounced)
// and the optional periodic trigger (gocron), so runs stay strictly
// serialized: a triggered run always completes before the next one starts,
// preserving the pipeline's one-document-at-a-time constraint.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/quartorun/internal/logfields"
	"git.home.luguber.info/inful/quartorun/internal/pipeline"
	"git.home.luguber.info/inful/quartorun/internal/resolve"
)

// Watcher re-renders on source changes in a directory.
type Watcher struct {
	runner   *pipeline.Runner
	dir      string
	debounce time.Duration
	every    time.Duration // optional periodic full re-render; 0 disables
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the event debounce window (default 2s).
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInterval enables an additional periodic full re-render.
func WithInterval(every time.Duration) Option {
	return func(w *Watcher) { w.every = every }
}

// New creates a watcher over dir, re-running the given pipeline runner.
func New(runner *pipeline.Runner, dir string, opts ...Option) *Watcher {
	w := &Watcher{
		runner:   runner,
		dir:      dir,
		debounce: 2 * time.Second, // coalesce rapid save bursts
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial render, then blocks re-rendering on changes until
// ctx is canceled. A failed render in watch mode is logged, not fatal: the
// next change gets another chance.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	slog.Info("Watching for source changes", logfields.Path(w.dir))

	trigger := make(chan struct{}, 1)

	var scheduler gocron.Scheduler
	if w.every > 0 {
		scheduler, err = gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(w.every),
			gocron.NewTask(func() { requestRun(trigger) }),
			gocron.WithName("periodic-rerender"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule periodic re-render: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
		slog.Info("Periodic re-render scheduled", slog.Duration("every", w.every))
	}

	// Initial render so the output is populated before the first change.
	w.renderOnce(ctx)

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		select {
		case <-debounce.C:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			slog.Debug("Source change detected",
				logfields.File(filepath.Base(event.Name)),
				slog.String("op", event.Op.String()))
			debounce.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))

		case <-debounce.C:
			requestRun(trigger)

		case <-trigger:
			w.renderOnce(ctx)
		}
	}
}

func (w *Watcher) renderOnce(ctx context.Context) {
	if err := w.runner.Run(ctx); err != nil {
		slog.Error("Render run failed, watching for further changes", logfields.Error(err))
	}
}

// requestRun coalesces triggers: a pending run request absorbs new ones.
func requestRun(trigger chan struct{}) {
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// relevantEvent filters watcher noise down to mutations of source documents.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), resolve.SourceExtension)
}
