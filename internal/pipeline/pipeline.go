// Package pipeline orchestrates a full render run: input resolution, output
// layout planning, renderer invocation, artifact relocation, and extra asset
// copying.
//
// Documents are processed strictly sequentially. The renderer's generated
// directory names (_site, _book, .quarto, <name>_files) are not namespaced
// per document, so relocation must fully complete for one document before
// the next render starts; concurrent invocation would collide on those paths.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/quartorun/internal/config"
	"git.home.luguber.info/inful/quartorun/internal/extras"
	"git.home.luguber.info/inful/quartorun/internal/layout"
	"git.home.luguber.info/inful/quartorun/internal/logfields"
	"git.home.luguber.info/inful/quartorun/internal/metrics"
	"git.home.luguber.info/inful/quartorun/internal/relocate"
	"git.home.luguber.info/inful/quartorun/internal/render"
	"git.home.luguber.info/inful/quartorun/internal/resolve"
)

// Stage names used in logs and metrics.
const (
	StageResolve  = "resolve"
	StageRender   = "render"
	StageRelocate = "relocate"
	StageExtras   = "extras"
)

// Runner executes render runs against a fixed configuration.
type Runner struct {
	cfg      *config.Config
	renderer render.Renderer
	recorder metrics.Recorder
}

// NewRunner creates a Runner using the external quarto binary and no metrics.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:      cfg,
		renderer: &render.BinaryRenderer{},
		recorder: metrics.NoopRecorder{},
	}
}

// WithRenderer allows tests or callers to inject a custom renderer.
func (r *Runner) WithRenderer(renderer render.Renderer) *Runner {
	if renderer != nil {
		r.renderer = renderer
	}
	return r
}

// WithRecorder injects a metrics recorder (used by watch mode).
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Run performs one full render run. Any fatal condition aborts the run
// immediately; there is no local recovery or retry.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()
	slog.Info("Starting render run",
		logfields.RunID(runID),
		logfields.Path(r.cfg.InputDir),
		logfields.File(r.cfg.InputFile))

	err := r.run(ctx, runID)
	r.recorder.ObserveRunDuration(time.Since(start))
	if err != nil {
		r.recorder.IncRunOutcome("failed")
		return err
	}
	r.recorder.IncRunOutcome("success")
	slog.Info("Render run completed",
		logfields.RunID(runID),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func (r *Runner) run(ctx context.Context, runID string) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	var docs *resolve.DocumentSet
	err := r.stage(StageResolve, func() error {
		var err error
		docs, err = resolve.Resolve(r.cfg.InputDir, r.cfg.InputFile)
		return err
	})
	if err != nil {
		return err
	}

	relocator := &relocate.Relocator{OutputRoot: r.cfg.OutputDir}
	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("quartorun-%s.log", runID))

	// All documents in the set share one parent, so the plan is the same for
	// each; stale content from a prior run is cleared once, up front, so the
	// batch can accumulate output.
	outputDir := layout.Plan(docs.Dir, r.cfg.InputDir, r.cfg.OutputDir)
	if err := relocator.PrepareOutputDir(outputDir); err != nil {
		return err
	}

	for _, doc := range docs.Files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		docPath := filepath.Join(docs.Dir, doc)
		slog.Info("Processing document",
			logfields.RunID(runID),
			logfields.Document(doc),
			logfields.OutputDir(outputDir))

		err := r.stage(StageRender, func() error {
			return r.renderer.Render(ctx, render.Invocation{
				DocumentPath: docPath,
				LogPath:      logPath,
				Format:       r.cfg.Format,
				LogLevel:     r.cfg.LogLevel,
			})
		})
		if err != nil {
			// Render failure aborts the whole run; no relocation is attempted
			// for the failed document and no further documents are processed.
			return err
		}

		err = r.stage(StageRelocate, func() error {
			return relocator.Relocate(docs.Dir, outputDir, doc, logPath)
		})
		// The log is transient: discard before the next document regardless.
		_ = os.Remove(logPath)
		if err != nil {
			return err
		}
		r.recorder.IncDocumentsRendered(1)
	}

	if len(r.cfg.FilesToCopy) > 0 || len(r.cfg.FoldersToCopy) > 0 {
		err := r.stage(StageExtras, func() error {
			return extras.Copy(docs.Dir, outputDir, r.cfg.FilesToCopy, r.cfg.FoldersToCopy)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn with timing and metrics instrumentation.
func (r *Runner) stage(name string, fn func() error) error {
	t0 := time.Now()
	err := fn()
	dur := time.Since(t0)
	r.recorder.ObserveStageDuration(name, dur)
	if err != nil {
		r.recorder.IncStageResult(name, metrics.ResultFailed)
		slog.Error("Stage failed",
			logfields.Stage(name),
			logfields.DurationMS(float64(dur.Milliseconds())),
			logfields.Error(err))
		return err
	}
	r.recorder.IncStageResult(name, metrics.ResultSuccess)
	slog.Debug("Stage completed",
		logfields.Stage(name),
		logfields.DurationMS(float64(dur.Milliseconds())))
	return nil
}
