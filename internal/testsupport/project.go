package testsupport

import (
	"testing"

	"prism/internal/config"
	"prism/internal/project"
)

// NewProject builds a project Context over a fresh temp config. The config is
// returned as well so callers can read back the roots.
func NewProject(t testing.TB, opts ...ConfigOption) (*project.Context, *config.Config) {
	t.Helper()
	return NewProjectWithFile(t, func() string { return "" }, opts...)
}

// NewProjectWithFile is NewProject with a current scene file provider.
func NewProjectWithFile(t testing.TB, currentFile func() string, opts ...ConfigOption) (*project.Context, *config.Config) {
	t.Helper()

	cfg := NewConfig(t, opts...)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	ctx, err := project.New(cfg, project.WithCurrentFile(currentFile))
	if err != nil {
		t.Fatalf("project.New: %v", err)
	}
	return ctx, cfg
}
