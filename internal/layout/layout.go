// Package layout derives output directories that mirror the input tree.
package layout

import (
	"path/filepath"
	"strings"
)

// Plan computes the output directory for documents living in parentDir.
//
// The offset of parentDir below sourceRoot is re-rooted under outputRoot.
// This is a textual prefix substitution: parentDir is expected to literally
// start with sourceRoot (the resolver constructs it that way). When parentDir
// equals sourceRoot the result is outputRoot itself.
//
// Plan has no side effects; directory creation is the caller's concern.
func Plan(parentDir, sourceRoot, outputRoot string) string {
	offset := strings.TrimPrefix(parentDir, sourceRoot)
	offset = strings.TrimPrefix(offset, string(filepath.Separator))
	if offset == "" {
		return outputRoot
	}
	return filepath.Join(outputRoot, offset)
}
