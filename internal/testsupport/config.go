package testsupport

import (
	"path/filepath"
	"testing"

	"prism/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// The global project lives under <tmp>/global and the local mirror under
// <tmp>/local; local files stay disabled unless WithLocalFiles is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Project.Path = filepath.Join(base, "global")
	cfgVal.Project.LocalPath = filepath.Join(base, "local")
	cfgVal.Project.UseLocalFiles = false
	cfgVal.Project.User = "rfr"
	cfgVal.Logging.Dir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLocalFiles enables the local mirror.
func WithLocalFiles() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Project.UseLocalFiles = true
	}
}

// WithFormatVersion overrides the project format version.
func WithFormatVersion(version string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Project.FormatVersion = version
	}
}

// WithSeparateOutputStack toggles independent output versioning.
func WithSeparateOutputStack(separate bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Project.SeparateOutputVersionStack = separate
	}
}

// WithSequenceSeparator overrides the sequence separator.
func WithSequenceSeparator(sep string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.SequenceSeparator = sep
	}
}

// WithExportRoot registers an additional named export root below the temp dir.
func WithExportRoot(name string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Project.ExportPaths == nil {
			b.cfg.Project.ExportPaths = map[string]string{}
		}
		b.cfg.Project.ExportPaths[name] = filepath.Join(b.baseDir, "exports", name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Project.Path)
}
