package extras

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (parentDir, outputDir string) {
	t.Helper()
	base := t.TempDir()
	parentDir = filepath.Join(base, "input")
	outputDir = filepath.Join(base, "output")
	require.NoError(t, os.MkdirAll(parentDir, 0o750))
	require.NoError(t, os.MkdirAll(outputDir, 0o750))
	return parentDir, outputDir
}

func TestCopy_FilesAndFolders(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "style.css"), []byte("css"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(parentDir, "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "assets", "logo.png"), []byte("png"), 0o644))

	err := Copy(parentDir, outputDir, []string{"style.css"}, []string{"assets"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "style.css"))
	require.NoError(t, err)
	require.Equal(t, "css", string(data))

	// Byte-identical folder copy; source stays in place.
	data, err = os.ReadFile(filepath.Join(outputDir, "assets", "logo.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
	_, err = os.Stat(filepath.Join(parentDir, "assets", "logo.png"))
	require.NoError(t, err)
}

func TestCopy_MissingFileAbortsBeforeLaterEntries(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "present.txt"), []byte("x"), 0o644))

	err := Copy(parentDir, outputDir, []string{"missing.txt", "present.txt"}, nil)
	require.ErrorIs(t, err, ErrMissingCopySource)

	// Fail-fast: the entry listed after the missing one was not copied.
	_, statErr := os.Stat(filepath.Join(outputDir, "present.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestCopy_MissingFolderIsFatal(t *testing.T) {
	parentDir, outputDir := setup(t)

	err := Copy(parentDir, outputDir, nil, []string{"assets"})
	require.ErrorIs(t, err, ErrMissingCopySource)
}

func TestCopy_DirectoryListedAsFileIsFatal(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(parentDir, "assets"), 0o750))

	err := Copy(parentDir, outputDir, []string{"assets"}, nil)
	require.ErrorIs(t, err, ErrMissingCopySource)
}

func TestCopy_OverwritesDestination(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "style.css"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "style.css"), []byte("old"), 0o644))

	require.NoError(t, Copy(parentDir, outputDir, []string{"style.css"}, nil))

	data, err := os.ReadFile(filepath.Join(outputDir, "style.css"))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestCopy_EmptyListsAreNoop(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, Copy(parentDir, outputDir, nil, nil))
}

func TestCopy_NestedRelativePaths(t *testing.T) {
	parentDir, outputDir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(parentDir, "img"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "img", "a.png"), []byte("a"), 0o644))

	require.NoError(t, Copy(parentDir, outputDir, []string{"img/a.png"}, nil))

	_, err := os.Stat(filepath.Join(outputDir, "img", "a.png"))
	require.NoError(t, err)
}
