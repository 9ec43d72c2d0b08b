// Package extras copies user-listed static assets from the source directory
// into the output directory.
//
// Listed entries are assets the rendered document explicitly depends on
// (images, attachments). A missing entry is therefore fatal rather than
// skipped: a silently missing asset would produce a broken rendered document
// without warning.
package extras

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/quartorun/internal/logfields"
	"git.home.luguber.info/inful/quartorun/internal/util/fsutil"
)

// ErrMissingCopySource indicates a listed file or folder does not exist
// under the resolved input directory. Copying aborts at the first missing
// entry; nothing listed after it is copied.
var ErrMissingCopySource = errors.New("copy source missing")

// Copy copies the listed files and folders from parentDir into outputDir,
// overwriting existing destination content. Order is preserved and the first
// missing entry aborts the remaining copies.
func Copy(parentDir, outputDir string, files, folders []string) error {
	for _, entry := range files {
		src := filepath.Join(parentDir, entry)
		info, err := os.Stat(src)
		if err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("%w: file %s under %s", ErrMissingCopySource, entry, parentDir)
		}
		if err := fsutil.CopyFile(src, filepath.Join(outputDir, entry)); err != nil {
			return fmt.Errorf("failed to copy file %s: %w", entry, err)
		}
		slog.Debug("Copied extra file", logfields.File(entry), logfields.OutputDir(outputDir))
	}

	for _, entry := range folders {
		src := filepath.Join(parentDir, entry)
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: folder %s under %s", ErrMissingCopySource, entry, parentDir)
		}
		if err := fsutil.CopyDir(src, filepath.Join(outputDir, entry)); err != nil {
			return fmt.Errorf("failed to copy folder %s: %w", entry, err)
		}
		slog.Debug("Copied extra folder", logfields.File(entry), logfields.OutputDir(outputDir))
	}

	if n := len(files) + len(folders); n > 0 {
		slog.Info("Copied extra assets", slog.Int("count", n), logfields.OutputDir(outputDir))
	}
	return nil
}
