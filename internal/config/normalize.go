package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeProject(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeLayout()
	c.normalizePlugins()
	if c.Hooks.TimeoutSeconds <= 0 {
		c.Hooks.TimeoutSeconds = defaultHookTimeout
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeProject() error {
	var err error
	if c.Project.Path, err = expandPath(strings.TrimSpace(c.Project.Path)); err != nil {
		return fmt.Errorf("project.path: %w", err)
	}
	if c.Project.LocalPath, err = expandPath(strings.TrimSpace(c.Project.LocalPath)); err != nil {
		return fmt.Errorf("project.local_path: %w", err)
	}
	c.Project.FormatVersion = strings.TrimSpace(c.Project.FormatVersion)
	if c.Project.FormatVersion == "" {
		c.Project.FormatVersion = defaultFormatVersion
	}
	c.Project.User = strings.TrimSpace(c.Project.User)
	if c.Project.User == "" {
		if value, ok := os.LookupEnv("PRISM_USER"); ok {
			c.Project.User = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("USER"); ok {
			c.Project.User = strings.TrimSpace(value)
		}
	}
	if len(c.Project.ExportPaths) > 0 {
		paths := make(map[string]string, len(c.Project.ExportPaths))
		for name, root := range c.Project.ExportPaths {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			expanded, err := expandPath(strings.TrimSpace(root))
			if err != nil {
				return fmt.Errorf("project.export_paths.%s: %w", name, err)
			}
			paths[name] = expanded
		}
		c.Project.ExportPaths = paths
	}
	return nil
}

func (c *Config) normalizeNaming() {
	if c.Naming.FilenameSeparator == "" {
		c.Naming.FilenameSeparator = defaultFilenameSeparator
	}
	if c.Naming.SequenceSeparator == "" {
		c.Naming.SequenceSeparator = defaultSequenceSeparator
	}
	if c.Naming.VersionPadding == 0 {
		c.Naming.VersionPadding = defaultVersionPadding
	}
	if c.Naming.FramePadding == 0 {
		c.Naming.FramePadding = defaultFramePadding
	}
}

func (c *Config) normalizeLayout() {
	c.Layout.AssetDir = cleanRelative(c.Layout.AssetDir, defaultAssetDir)
	c.Layout.ShotDir = cleanRelative(c.Layout.ShotDir, defaultShotDir)
	c.Layout.PipelineDir = cleanRelative(c.Layout.PipelineDir, defaultPipelineDir)
}

func cleanRelative(value, fallback string) string {
	value = strings.Trim(strings.TrimSpace(value), `/\`)
	if value == "" {
		value = fallback
	}
	return filepath.FromSlash(value)
}

func (c *Config) normalizePlugins() {
	formats := make([]string, 0, len(c.Plugins.SceneFormats))
	seen := make(map[string]struct{}, len(c.Plugins.SceneFormats))
	for _, format := range c.Plugins.SceneFormats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		if !strings.HasPrefix(format, ".") {
			format = "." + format
		}
		if _, exists := seen[format]; exists {
			continue
		}
		seen[format] = struct{}{}
		formats = append(formats, format)
	}
	c.Plugins.SceneFormats = formats

	disabled := c.Plugins.Disabled[:0]
	for _, name := range c.Plugins.Disabled {
		if name = strings.TrimSpace(name); name != "" {
			disabled = append(disabled, name)
		}
	}
	c.Plugins.Disabled = disabled
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
