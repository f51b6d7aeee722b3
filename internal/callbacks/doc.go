// Package callbacks implements Prism's event fan-out.
//
// Plugins are grouped into five pools (current app, unloaded apps, custom,
// project managers, render farm managers). A plugin opts into an event by
// implementing Hooker and returning a handler for it; plugins that do not are
// skipped silently. Dispatch visits the selected pools in a fixed order and
// then runs callbacks registered directly on the Dispatcher by descending
// priority. DispatchHook additionally runs the open project's hook script for
// the event through a ScriptRunner.
package callbacks
