// Package relocate moves generated render artifacts from the source tree
// into the planned output directory.
//
// The renderer writes its output next to the source document. After each
// render a fixed, ordered list of known generated artifacts is checked under
// the document's directory and, when present, moved into the output
// directory: the site/book bundle, the artifact named by the render log, the
// renderer's internal cache, and the per-document support folder. Every step
// is individually optional; different renderer configurations produce
// different subsets of output, so an absent source path is skipped silently.
package relocate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/quartorun/internal/logfields"
	"git.home.luguber.info/inful/quartorun/internal/render"
	"git.home.luguber.info/inful/quartorun/internal/resolve"
	"git.home.luguber.info/inful/quartorun/internal/util/fsutil"
)

// Generated directory names the renderer is known to produce.
const (
	bookBundleDir = "_book"   // book output bundle
	siteBundleDir = "_site"   // website output bundle
	cacheDir      = ".quarto" // renderer-internal project cache
)

// supportFolderSuffix is appended to a document's base name for its folder
// of auxiliary generated assets.
const supportFolderSuffix = "_files"

// Relocator moves render output for one document at a time. OutputRoot is
// the root output mount; it is never wholesale-deleted even when it doubles
// as a document's output directory.
type Relocator struct {
	OutputRoot string
}

// Relocate inspects parentDir for generated artifacts of docFile and moves
// them into outputDir. The render log at logPath names the standalone
// artifact, when one was produced. PrepareOutputDir must have run once for
// outputDir beforehand; Relocate itself only ensures the directory exists so
// a folder batch accumulates output across documents.
func (r *Relocator) Relocate(parentDir, outputDir, docFile, logPath string) error {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	for _, bundle := range []string{bookBundleDir, siteBundleDir} {
		if err := moveIfPresent(filepath.Join(parentDir, bundle), filepath.Join(outputDir, bundle)); err != nil {
			return err
		}
	}

	if err := r.relocateLoggedArtifact(parentDir, outputDir, logPath); err != nil {
		return err
	}

	if err := moveIfPresent(filepath.Join(parentDir, cacheDir), filepath.Join(outputDir, cacheDir)); err != nil {
		return err
	}

	support := strings.TrimSuffix(docFile, resolve.SourceExtension) + supportFolderSuffix
	return moveIfPresent(filepath.Join(parentDir, support), filepath.Join(outputDir, support))
}

// PrepareOutputDir creates outputDir, first removing any stale content from
// a prior run. The root output directory itself is never removed. Called
// once per run, before the first document is rendered into outputDir.
func (r *Relocator) PrepareOutputDir(outputDir string) error {
	if outputDir != r.OutputRoot {
		if _, err := os.Stat(outputDir); err == nil {
			slog.Debug("Clearing stale output directory", logfields.OutputDir(outputDir))
			if err := os.RemoveAll(outputDir); err != nil {
				return fmt.Errorf("failed to clear output directory %s: %w", outputDir, err)
			}
		}
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return nil
}

// relocateLoggedArtifact moves the artifact named by the render log, when
// the log contains one and the path exists. A log without the marker line is
// not an error; the renderer may only have produced a bundle.
func (r *Relocator) relocateLoggedArtifact(parentDir, outputDir, logPath string) error {
	artifact, found, err := render.ParseOutputLine(logPath)
	if err != nil {
		return fmt.Errorf("failed to read render log %s: %w", logPath, err)
	}
	if !found {
		slog.Debug("Render log names no standalone artifact", logfields.Path(logPath))
		return nil
	}

	// The renderer may log the artifact as an absolute path; reduce it to
	// the offset below the document's directory.
	if filepath.IsAbs(artifact) {
		rel, err := filepath.Rel(parentDir, artifact)
		if err != nil || strings.HasPrefix(rel, "..") {
			slog.Warn("Logged artifact path outside source directory, skipping",
				logfields.Path(artifact))
			return nil
		}
		artifact = rel
	}

	src := filepath.Join(parentDir, artifact)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	dst := filepath.Join(outputDir, artifact)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	slog.Info("Relocating rendered artifact", logfields.File(artifact), logfields.OutputDir(outputDir))
	return fsutil.MovePath(src, dst)
}

// moveIfPresent moves src to dst when src exists; an absent source is
// skipped silently.
func moveIfPresent(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	slog.Debug("Relocating generated path", logfields.Path(src), logfields.OutputDir(filepath.Dir(dst)))
	return fsutil.MovePath(src, dst)
}
