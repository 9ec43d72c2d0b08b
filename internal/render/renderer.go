// Package render invokes the external Quarto renderer and interprets its log
// output. The renderer is treated as an opaque CLI: it accepts a document
// path and options, writes generated files into the document's directory, and
// emits a parsable "Output created:" line identifying the produced artifact.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"git.home.luguber.info/inful/quartorun/internal/logfields"
)

// Invocation describes one render of one document.
type Invocation struct {
	DocumentPath string // Absolute path to the source document
	LogPath      string // Destination for the renderer's log output
	Format       string // Optional output format override (--to)
	LogLevel     string // Optional renderer log level (--log-level)
}

// Renderer abstracts how a single document render is performed. This allows
// swapping out the external quarto binary (BinaryRenderer) with alternative
// strategies (no-op or fakes in tests) without changing pipeline orchestration.
type Renderer interface {
	Render(ctx context.Context, inv Invocation) error
}

// BinaryRenderer invokes the quarto binary present on PATH.
type BinaryRenderer struct {
	// Binary overrides the executable name; defaults to "quarto".
	Binary string
}

func (b *BinaryRenderer) binary() string {
	if b.Binary != "" {
		return b.Binary
	}
	return "quarto"
}

// Render runs `quarto render` for the invocation's document. The log-level
// and format flags are appended only when configured, letting the renderer
// fall back to project-level defaults otherwise. Any pre-existing file at
// the log destination is removed first so stale content cannot be misread
// by artifact relocation.
func (b *BinaryRenderer) Render(ctx context.Context, inv Invocation) error {
	if _, err := exec.LookPath(b.binary()); err != nil {
		return fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
	}

	if err := os.Remove(inv.LogPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale render log %s: %w", inv.LogPath, err)
	}

	args := []string{"render", inv.DocumentPath, "--log", inv.LogPath}
	if inv.LogLevel != "" {
		args = append(args, "--log-level", inv.LogLevel)
	}
	if inv.Format != "" {
		args = append(args, "--to", inv.Format)
	}

	cmd := exec.CommandContext(ctx, b.binary(), args...)
	cmd.Dir = filepath.Dir(inv.DocumentPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Invoking renderer",
		logfields.Document(filepath.Base(inv.DocumentPath)),
		logfields.Format(inv.Format),
		logfields.Path(inv.LogPath))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, inv.DocumentPath, err)
	}
	return nil
}

// NoopRenderer performs no rendering; useful in tests or when only path
// resolution and relocation behavior is exercised.
type NoopRenderer struct{}

func (n *NoopRenderer) Render(_ context.Context, inv Invocation) error {
	slog.Debug("NoopRenderer skipping render", logfields.Document(filepath.Base(inv.DocumentPath)))
	return nil
}
