package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Project identifies the open production project and its storage roots.
type Project struct {
	Path                       string            `toml:"path"`
	LocalPath                  string            `toml:"local_path"`
	UseLocalFiles              bool              `toml:"use_local_files"`
	FormatVersion              string            `toml:"format_version" validate:"required"`
	User                       string            `toml:"user"`
	SeparateOutputVersionStack bool              `toml:"separate_output_version_stack"`
	ExportPaths                map[string]string `toml:"export_paths"`
}

// Naming contains the scene-file naming grammar settings.
type Naming struct {
	FilenameSeparator string `toml:"filename_separator" validate:"required"`
	SequenceSeparator string `toml:"sequence_separator" validate:"required"`
	VersionPadding    int    `toml:"version_padding" validate:"min=1,max=8"`
	FramePadding      int    `toml:"frame_padding" validate:"min=1,max=8"`
}

// Layout contains the project-relative directory names for entity roots.
type Layout struct {
	AssetDir    string `toml:"asset_dir" validate:"required"`
	ShotDir     string `toml:"shot_dir" validate:"required"`
	PipelineDir string `toml:"pipeline_dir" validate:"required"`
}

// Plugins contains plugin-facing settings.
type Plugins struct {
	// SceneFormats lists the scene extensions owned by render-engine integrations.
	SceneFormats []string `toml:"scene_formats"`
	// Disabled lists custom plugin names that never receive callbacks.
	Disabled []string `toml:"disabled"`
}

// Hooks contains per-project hook script settings.
type Hooks struct {
	Enabled        bool `toml:"enabled"`
	TimeoutSeconds int  `toml:"timeout_seconds" validate:"min=1"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for Prism.
//
// Configuration sections by subsystem:
//   - Project: storage roots, format version, user, output stack mode
//   - Naming: filename and sequence separators, version and frame padding
//   - Layout: asset, shot, and pipeline directory names
//   - Plugins: registered scene formats and disabled plugins
//   - Hooks: per-project hook scripts
//   - Logging: log format, level, and optional log directory
type Config struct {
	Project Project `toml:"project"`
	Naming  Naming  `toml:"naming"`
	Layout  Layout  `toml:"layout"`
	Plugins Plugins `toml:"plugins"`
	Hooks   Hooks   `toml:"hooks"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/prism/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("prism.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// HasProject reports whether a project root is configured.
func (c *Config) HasProject() bool {
	return strings.TrimSpace(c.Project.Path) != ""
}

// LocalFilesEnabled reports whether the local mirror participates in lookups.
func (c *Config) LocalFilesEnabled() bool {
	return c.Project.UseLocalFiles && strings.TrimSpace(c.Project.LocalPath) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
