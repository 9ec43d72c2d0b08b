// Package resolve turns a user-supplied input spec (file name, extension-less
// file name, or directory) into the concrete set of source documents to render.
//
// Resolution is pure filesystem inspection; no paths are created or mutated.
// Directory resolution is non-recursive: only direct children carrying the
// source extension are considered.
package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/quartorun/internal/logfields"
)

// SourceExtension is the recognized authoring extension for Quarto documents.
const SourceExtension = ".qmd"

// DocumentSet is the result of input resolution: a parent directory and the
// ordered, non-empty list of document file names (all siblings in Dir).
type DocumentSet struct {
	Dir   string   // Absolute parent directory of all documents
	Files []string // Document file names, each ending in SourceExtension
}

// Paths returns the absolute path of every document in the set.
func (ds *DocumentSet) Paths() []string {
	paths := make([]string, len(ds.Files))
	for i, f := range ds.Files {
		paths[i] = filepath.Join(ds.Dir, f)
	}
	return paths
}

// Resolve locates the documents named by inputSpec under sourceRoot.
//
//   - A regular file resolves to a single-document set.
//   - A missing path whose extension-appended sibling exists resolves to that
//     sibling (supports omitting the extension).
//   - A directory resolves to all direct children with the source extension,
//     sorted by name; zero matches is ErrNoMatchingDocuments.
//   - Anything else is ErrInputNotFound.
func Resolve(sourceRoot, inputSpec string) (*DocumentSet, error) {
	spec := strings.TrimSuffix(inputSpec, string(filepath.Separator))
	target := filepath.Join(sourceRoot, spec)

	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		slog.Debug("Resolved input as single file", logfields.Path(target))
		return &DocumentSet{
			Dir:   filepath.Dir(target),
			Files: []string{filepath.Base(target)},
		}, nil
	} else if err == nil && info.IsDir() {
		return resolveDirectory(target)
	}

	// Tolerate an omitted extension on a single-file spec.
	withExt := target + SourceExtension
	if info, err := os.Stat(withExt); err == nil && info.Mode().IsRegular() {
		slog.Debug("Resolved input by appending extension", logfields.Path(withExt))
		return &DocumentSet{
			Dir:   filepath.Dir(withExt),
			Files: []string{filepath.Base(withExt)},
		}, nil
	}

	return nil, fmt.Errorf("%w: %s under %s", ErrInputNotFound, inputSpec, sourceRoot)
}

// resolveDirectory enumerates direct children of dir carrying the source
// extension. The listing is non-recursive and sorted for deterministic order.
func resolveDirectory(dir string) (*DocumentSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), SourceExtension) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingDocuments, dir)
	}

	slog.Debug("Resolved input as directory", logfields.Path(dir), slog.Int("documents", len(files)))
	return &DocumentSet{Dir: dir, Files: files}, nil
}
