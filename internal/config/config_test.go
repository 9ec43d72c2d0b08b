package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNothingSet(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultInputDir, cfg.InputDir)
	require.Equal(t, DefaultOutputDir, cfg.OutputDir)
	require.Equal(t, DefaultInputFile, cfg.InputFile)
	require.Empty(t, cfg.Format)
	require.Empty(t, cfg.FilesToCopy)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("INPUT_DIR", "/data/in")
	t.Setenv("OUTPUT_DIR", "/data/out")
	t.Setenv("INPUT_FILE", "blog")
	t.Setenv("OUTPUT_FORMAT", "pdf")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("FILES_TO_COPY", "logo.png, style.css")
	t.Setenv("FOLDERS_TO_COPY", "assets")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/data/in", cfg.InputDir)
	require.Equal(t, "/data/out", cfg.OutputDir)
	require.Equal(t, "blog", cfg.InputFile)
	require.Equal(t, "pdf", cfg.Format)
	require.Equal(t, "warning", cfg.LogLevel)
	require.Equal(t, []string{"logo.png", "style.css"}, cfg.FilesToCopy)
	require.Equal(t, []string{"assets"}, cfg.FoldersToCopy)
	require.True(t, cfg.Debug)
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "quartorun.yaml")
	content := "input_file: report.qmd\nformat: html\nfiles_to_copy:\n  - a.png\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	t.Setenv("OUTPUT_FORMAT", "pdf")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, "report.qmd", cfg.InputFile)
	// Environment wins over the file value.
	require.Equal(t, "pdf", cfg.Format)
	require.Equal(t, []string{"a.png"}, cfg.FilesToCopy)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultInputFile, cfg.InputFile)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input_file: [unclosed"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
}

func TestValidate_MissingMount(t *testing.T) {
	cfg := &Config{InputDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()}
	require.ErrorIs(t, cfg.Validate(), ErrMissingMount)

	cfg = &Config{InputDir: t.TempDir(), OutputDir: filepath.Join(t.TempDir(), "nope")}
	require.ErrorIs(t, cfg.Validate(), ErrMissingMount)

	cfg = &Config{InputDir: t.TempDir(), OutputDir: t.TempDir()}
	require.NoError(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a.png", "b.css"}, SplitList("a.png,b.css"))
	require.Equal(t, []string{"a.png", "b.css"}, SplitList(" a.png , b.css "))
	require.Equal(t, []string{"a.png"}, SplitList("a.png,,"))
	require.Nil(t, SplitList(""))
	// Order is preserved.
	require.Equal(t, []string{"z", "a", "m"}, SplitList("z,a,m"))
}
