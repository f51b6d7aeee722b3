// Package logging assembles structured slog loggers and formatting helpers used
// across Prism packages.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and defines the standard field keys (component, entity, callback,
// plugin) so resolver, lifecycle, and dispatch code tag lines the same way. The
// package also provides a no-op logger for tests and wiring code that cannot fail.
package logging
