// Package config assembles the immutable render configuration from an
// optional YAML file and environment variables. Environment values win over
// file values; defaults fill whatever remains. The configuration is built
// once at process start and passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingMount indicates a required input or output root directory is
// absent. This is checked before any processing starts.
var ErrMissingMount = errors.New("required mount directory missing")

// Defaults for the containerized layout. Both directories are expected to be
// bind-mounted at runtime.
const (
	DefaultInputDir  = "/project/input"
	DefaultOutputDir = "/project/output"
	DefaultInputFile = "index.qmd"
)

// Config is the full render configuration. Immutable once constructed.
type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// InputFile names a file, an extension-less file, or a directory,
	// relative to InputDir.
	InputFile string `yaml:"input_file"`

	// Format overrides the renderer's output format when non-empty.
	Format string `yaml:"format"`

	// LogLevel is passed through to the renderer verbatim when non-empty
	// (info, warning, error, critical).
	LogLevel string `yaml:"log_level"`

	// FilesToCopy and FoldersToCopy list additional assets to copy from the
	// resolved input directory into the output directory, in order.
	FilesToCopy   []string `yaml:"files_to_copy"`
	FoldersToCopy []string `yaml:"folders_to_copy"`

	// Debug enables verbose diagnostic logging; no behavioral change otherwise.
	Debug bool `yaml:"debug"`
}

// Load builds the configuration. The YAML file at configPath is optional; a
// missing file is not an error. Environment variables override file values.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand ${VAR} references so file values can point at env state.
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("INPUT_DIR"); v != "" {
		c.InputDir = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("INPUT_FILE"); v != "" {
		c.InputFile = v
	}
	if v := os.Getenv("OUTPUT_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FILES_TO_COPY"); v != "" {
		c.FilesToCopy = SplitList(v)
	}
	if v := os.Getenv("FOLDERS_TO_COPY"); v != "" {
		c.FoldersToCopy = SplitList(v)
	}
	if v := os.Getenv("DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Debug = true
	}
}

func (c *Config) applyDefaults() {
	if c.InputDir == "" {
		c.InputDir = DefaultInputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.InputFile == "" {
		c.InputFile = DefaultInputFile
	}
}

// Validate checks that both mount roots exist. Run before any processing so
// a missing bind mount fails loudly instead of producing partial output.
func (c *Config) Validate() error {
	for _, dir := range []string{c.InputDir, c.OutputDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrMissingMount, dir)
		}
	}
	return nil
}

// SplitList parses a comma-delimited configuration string into an ordered
// list, trimming surrounding whitespace and dropping empty segments. Parsing
// happens once at configuration-load time.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
