package logging

import (
	"context"
	"log/slog"
	"slices"
)

// Structured logging keys shared across packages.
const (
	FieldComponent = "component"
	// FieldEventType classifies a warning for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the user what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is what the user loses because of a warning.
	FieldImpact = "impact"
	// FieldEntity is the entity kind (asset, shot, step, category). The
	// console handler shows it in the line header together with
	// FieldEntityName.
	FieldEntity     = "entity"
	FieldEntityName = "entity_name"
	FieldCallback   = "callback"
	FieldPlugin     = "plugin"
	// FieldRunID correlates all lines of one hook script run.
	FieldRunID = "run_id"
	FieldUser  = "user"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Strings(key string, values []string) Attr { return slog.Any(key, values) }

// Entity is the FieldEntity/FieldEntityName pair.
func Entity(kind, name string) []Attr {
	return []Attr{String(FieldEntity, kind), String(FieldEntityName, name)}
}

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attributes into the variadic form accepted by slog.Logger methods.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(nopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger
// becomes a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint,
// and impact. Missing fields get defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	defaults := []Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check logs for details"),
		String(FieldImpact, "operation completed with warnings"),
	}
	for _, d := range defaults {
		if !slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == d.Key }) {
			attrs = append(attrs, d)
		}
	}
	logger.Warn(msg, Args(attrs...)...)
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (nopHandler) Handle(context.Context, slog.Record) error { return nil }

func (nopHandler) WithAttrs([]slog.Attr) slog.Handler { return nopHandler{} }

func (nopHandler) WithGroup(string) slog.Handler { return nopHandler{} }
