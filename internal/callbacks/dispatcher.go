package callbacks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"

	"prism/internal/logging"
)

// DefaultPriority is the priority of registrations that do not pick one.
const DefaultPriority = 50

// Registration is one registered callback.
type Registration struct {
	ID       int
	Name     string
	Priority int
	fn       Func
}

// Current describes the plugin and event being dispatched.
type Current struct {
	Plugin   string
	Function string
}

// HandlerError wraps a handler failure with the pool and plugin it came from.
type HandlerError struct {
	Pool   Pool
	Plugin string
	Event  string
	Err    error
}

func (e *HandlerError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("callback %s: %v", e.Event, e.Err)
	}
	return fmt.Sprintf("%s plugin %s: %s: %v", e.Pool, e.Plugin, e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// ScriptRunner loads a hook script, calls its entry point with args, and
// discards it.
type ScriptRunner interface {
	Run(ctx context.Context, path string, args map[string]any) error
}

// Notifier shows a message to the user.
type Notifier interface {
	Popup(msg string)
}

// HookConfig locates and runs per-project hook scripts.
type HookConfig struct {
	// Dir returns the project's hook directory, or "" when no project is open.
	Dir       func() string
	Extension string
	Runner    ScriptRunner
	Notifier  Notifier
}

// Dispatcher fans events out to plugin pools and registered callbacks.
//
// Only the custom plugin pool isolates failures: an error or panic there is
// logged and the next plugin runs. Errors from every other pool and from
// registered callbacks abort the dispatch and are returned to the caller
// together with the results collected so far.
type Dispatcher struct {
	pools  Pools
	hooks  HookConfig
	logger *slog.Logger

	mu         sync.Mutex
	registered map[string][]Registration
	lastID     int
	current    Current
}

// NewDispatcher creates a Dispatcher over pools. pools may be nil when only
// registered callbacks are used.
func NewDispatcher(pools Pools, hooks HookConfig, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pools:      pools,
		hooks:      hooks,
		logger:     logging.NewComponentLogger(logger, "callbacks"),
		registered: make(map[string][]Registration),
	}
}

// Register adds fn as a callback for name. Callbacks with higher priority run
// first; equal priorities keep registration order.
func (d *Dispatcher) Register(name string, fn Func, priority int) Registration {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastID++
	reg := Registration{ID: d.lastID, Name: name, Priority: priority, fn: fn}
	regs := append(d.registered[name], reg)
	slices.SortStableFunc(regs, func(a, b Registration) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	d.registered[name] = regs

	d.logger.Debug("registered callback",
		logging.String(logging.FieldCallback, name),
		logging.Int("id", reg.ID),
		logging.Int("priority", priority))
	return reg
}

// Unregister removes the registration with id.
func (d *Dispatcher) Unregister(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, regs := range d.registered {
		for i, reg := range regs {
			if reg.ID == id {
				d.registered[name] = slices.Delete(regs, i, i+1)
				d.logger.Debug("unregistered callback",
					logging.String(logging.FieldCallback, name),
					logging.Int("id", id))
				return true
			}
		}
	}
	d.logger.Debug("callback not registered", logging.Int("id", id))
	return false
}

// Registrations returns the callbacks registered for name in call order.
func (d *Dispatcher) Registrations(name string) []Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.registered[name])
}

// Current reports the plugin and event of the most recent dispatch step.
func (d *Dispatcher) Current() Current {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Dispatcher) setCurrent(plugin, function string) {
	d.mu.Lock()
	d.current = Current{Plugin: plugin, Function: function}
	d.mu.Unlock()
}

// Dispatch sends event name to the selected pools in their fixed order, then
// to every registered callback. Plugins that do not handle name contribute no
// result.
func (d *Dispatcher) Dispatch(name string, selected []Pool, args Args) ([]any, error) {
	if args == nil {
		args = Args{}
	}
	var results []any
	d.setCurrent("", name)

	for _, pool := range dispatchOrder {
		if !slices.Contains(selected, pool) || d.pools == nil {
			continue
		}
		for _, plugin := range d.pools.Members(pool) {
			hooker, ok := plugin.(Hooker)
			if !ok {
				continue
			}
			fn, ok := hooker.Hook(name)
			if !ok {
				continue
			}
			d.setCurrent(plugin.Name(), name)

			if pool == PoolCustom {
				res, err := d.callIsolated(fn, args)
				if err != nil {
					logging.WarnWithContext(d.logger, "custom plugin callback failed", "callback_failed",
						logging.String(logging.FieldPlugin, plugin.Name()),
						logging.String(logging.FieldCallback, name),
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check the plugin's handler for "+name),
						logging.String(logging.FieldImpact, "remaining plugins still receive the event"))
					continue
				}
				results = append(results, res)
				continue
			}

			res, err := fn(args)
			if err != nil {
				return results, &HandlerError{Pool: pool, Plugin: plugin.Name(), Event: name, Err: err}
			}
			results = append(results, res)
		}
	}

	for _, reg := range d.Registrations(name) {
		res, err := reg.fn(args)
		if err != nil {
			return results, &HandlerError{Event: name, Err: err}
		}
		results = append(results, res)
	}
	return results, nil
}

func (d *Dispatcher) callIsolated(fn Func, args Args) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(args)
}

// DispatchHook sends name to the current app and custom pools, then runs the
// project's hook script for name when one exists. Script failures are shown
// through the notifier and never returned. Without an open project only the
// pool dispatch happens.
func (d *Dispatcher) DispatchHook(ctx context.Context, name string, args Args) ([]any, error) {
	if args == nil {
		args = Args{}
	}
	results, err := d.Dispatch(name, []Pool{PoolCurrentApp, PoolCustom}, args)
	if err != nil {
		return results, err
	}

	if d.hooks.Dir == nil || d.hooks.Runner == nil {
		return results, nil
	}
	dir := d.hooks.Dir()
	if dir == "" {
		return results, nil
	}

	hookPath := filepath.Join(dir, name+d.hooks.Extension)
	if info, statErr := os.Stat(hookPath); statErr != nil || info.IsDir() {
		if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			d.logger.Debug("hook script unreadable", logging.String("path", hookPath), logging.Error(statErr))
		}
		return results, nil
	}

	runID := uuid.NewString()
	logger := d.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldCallback, name))
	logger.Info("running project hook", logging.String("path", hookPath))

	if runErr := d.hooks.Runner.Run(ctx, hookPath, args); runErr != nil {
		logging.WarnWithContext(logger, "project hook failed", "hook_failed",
			logging.String("path", hookPath),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "fix or remove the hook script"),
			logging.String(logging.FieldImpact, "hook side effects were not applied"))
		if d.hooks.Notifier != nil {
			d.hooks.Notifier.Popup(fmt.Sprintf("An error occurred while calling the %s hook:\n\n%v", name, runErr))
		}
	}

	if removeErr := os.Remove(hookPath + "c"); removeErr == nil {
		logger.Debug("removed compiled hook artifact", logging.String("path", hookPath+"c"))
	}
	return results, nil
}
