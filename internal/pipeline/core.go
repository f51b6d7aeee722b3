package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prism/internal/callbacks"
	"prism/internal/config"
	"prism/internal/configstore"
	"prism/internal/entities"
	"prism/internal/hookscript"
	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/outputs"
	"prism/internal/project"
	"prism/internal/prompt"
	"prism/internal/versioning"
)

// Options customizes Core construction.
type Options struct {
	Logger *slog.Logger
	// Notifier answers user-facing questions. Defaults to logging only.
	Notifier prompt.Notifier
	// CurrentFile reports the scene file open in the host application.
	CurrentFile func() string
	// CurrentApp is the integration plugin of the host application.
	CurrentApp callbacks.Plugin
	// Plugins are added to the custom pool after the built-in event log.
	Plugins []callbacks.Plugin
}

// Core holds the services of one open project.
type Core struct {
	Config    *config.Config
	Project   *project.Context
	Store     *configstore.Store
	Versions  *versioning.Resolver
	Codec     *naming.Codec
	Plugins   *callbacks.PluginSet
	Callbacks *callbacks.Dispatcher
	Entities  *entities.Lifecycle
	Outputs   *outputs.Builder
	Notifier  prompt.Notifier

	logger *slog.Logger
}

// New wires a Core from configuration.
func New(cfg *config.Config, opts Options) (*Core, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = prompt.NewLogging(logger)
	}

	var projectOpts []project.Option
	if opts.CurrentFile != nil {
		projectOpts = append(projectOpts, project.WithCurrentFile(opts.CurrentFile))
	}
	ctx, err := project.New(cfg, projectOpts...)
	if err != nil {
		return nil, err
	}

	plugins := callbacks.NewPluginSet()
	if opts.CurrentApp != nil {
		plugins.SetCurrentApp(opts.CurrentApp)
	}
	custom := append([]callbacks.Plugin{NewEventLog(logger)}, opts.Plugins...)
	for _, p := range custom {
		if err := plugins.Add(callbacks.PoolCustom, p); err != nil {
			return nil, fmt.Errorf("register plugin: %w", err)
		}
	}
	plugins.Disable(cfg.Plugins.Disabled...)

	hooks := callbacks.HookConfig{Notifier: notifier}
	if cfg.Hooks.Enabled {
		hooks.Dir = ctx.HooksPath
		hooks.Extension = hookscript.Extension
		hooks.Runner = hookscript.New(time.Duration(cfg.Hooks.TimeoutSeconds)*time.Second, logger)
	}
	dispatcher := callbacks.NewDispatcher(plugins, hooks, logger)

	store := configstore.New(ctx.PipelinePath(), logger)
	versions := versioning.New(ctx, logger)
	codec := naming.NewCodec(ctx, versions)
	resolver := entities.NewResolver(ctx, store, logger)

	core := &Core{
		Config:    cfg,
		Project:   ctx,
		Store:     store,
		Versions:  versions,
		Codec:     codec,
		Plugins:   plugins,
		Callbacks: dispatcher,
		Entities:  entities.NewLifecycle(resolver, codec, dispatcher, notifier, logger),
		Outputs:   outputs.New(ctx, versions, notifier, logger),
		Notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}

	core.logger.Debug("project opened",
		logging.String("root", ctx.Root()),
		logging.String("format_version", ctx.FormatVersion()),
		logging.Bool("local_files", ctx.UseLocalFiles()),
		logging.String("local_root", ctx.LocalRoot()),
		logging.Strings("plugins", pluginNames(custom)))
	return core, nil
}

// Hook dispatches name to the host integration and custom plugins, then runs
// the project's hook script for it. Without an open project only the plugins
// receive the event.
func (c *Core) Hook(ctx context.Context, name string, args callbacks.Args) ([]any, error) {
	return c.Callbacks.DispatchHook(ctx, name, args)
}

func pluginNames(plugins []callbacks.Plugin) []string {
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	return names
}
