package pipeline

import (
	"log/slog"
	"sort"

	"prism/internal/callbacks"
	"prism/internal/entities"
	"prism/internal/logging"
)

// EventLogName is the name of the built-in plugin that logs entity events.
const EventLogName = "eventlog"

var loggedEvents = []string{
	entities.EventAssetCreated,
	entities.EventAssetFolderCreated,
	entities.EventShotCreated,
	entities.EventStepCreated,
	entities.EventCategoryCreated,
}

// NewEventLog returns a custom plugin that logs every entity creation event.
// It can be turned off by listing "eventlog" in plugins.disabled.
func NewEventLog(logger *slog.Logger) callbacks.Plugin {
	logger = logging.NewComponentLogger(logger, EventLogName)
	hooks := make(callbacks.Hooks, len(loggedEvents))
	for _, event := range loggedEvents {
		hooks[event] = func(args callbacks.Args) (any, error) {
			attrs := []logging.Attr{logging.String(logging.FieldEventType, event)}
			keys := make([]string, 0, len(args))
			for k := range args {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if k == "settings" {
					continue
				}
				attrs = append(attrs, logging.Any(k, args[k]))
			}
			logger.Info("entity event", logging.Args(attrs...)...)
			return nil, nil
		}
	}
	return callbacks.NewPlugin(EventLogName, hooks)
}
