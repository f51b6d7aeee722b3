package callbacks_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"prism/internal/callbacks"
)

func recorder(calls *[]string, label string) callbacks.Func {
	return func(callbacks.Args) (any, error) {
		*calls = append(*calls, label)
		return label, nil
	}
}

func TestRegisterOrdersByPriority(t *testing.T) {
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{}, nil)
	var calls []string

	d.Register("x", recorder(&calls, "f"), 10)
	d.Register("x", recorder(&calls, "g"), 90)
	d.Register("x", recorder(&calls, "h"), 10)
	d.Register("x", recorder(&calls, "i"), callbacks.DefaultPriority)

	results, err := d.Dispatch("x", nil, nil)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	want := []string{"g", "i", "f", "h"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("call order = %v, want %v", calls, want)
	}
	if len(results) != 4 || results[0] != "g" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestRegisterOrdersExtremePriorities(t *testing.T) {
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{}, nil)
	var calls []string

	d.Register("x", recorder(&calls, "low"), math.MinInt)
	d.Register("x", recorder(&calls, "high"), 1)
	d.Register("x", recorder(&calls, "top"), math.MaxInt)

	if _, err := d.Dispatch("x", nil, nil); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if want := []string{"top", "high", "low"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("call order = %v, want %v", calls, want)
	}
}

func TestUnregister(t *testing.T) {
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{}, nil)
	var calls []string
	reg := d.Register("a", recorder(&calls, "a"), 50)
	d.Register("b", recorder(&calls, "b"), 50)

	if !d.Unregister(reg.ID) {
		t.Fatal("expected registration to be found")
	}
	if d.Unregister(reg.ID) {
		t.Fatal("second unregister should report false")
	}
	if _, err := d.Dispatch("a", nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Fatalf("unregistered callback ran: %v", calls)
	}
	if regs := d.Registrations("b"); len(regs) != 1 || regs[0].ID != reg.ID+1 {
		t.Fatalf("unexpected registrations %+v", regs)
	}
}

type bare struct{ name string }

func (b bare) Name() string { return b.name }

func TestDispatchVisitsPoolsInFixedOrder(t *testing.T) {
	set := callbacks.NewPluginSet()
	var calls []string

	mustAdd(t, set, callbacks.PoolRenderFarmManagers, callbacks.NewPlugin("farm", callbacks.Hooks{"ev": recorder(&calls, "farm")}))
	mustAdd(t, set, callbacks.PoolProjectManagers, callbacks.NewPlugin("pm", callbacks.Hooks{"ev": recorder(&calls, "pm")}))
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("custom1", callbacks.Hooks{"ev": recorder(&calls, "custom1")}))
	mustAdd(t, set, callbacks.PoolCustom, bare{name: "no-hooks"})
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("other-event", callbacks.Hooks{"nope": recorder(&calls, "nope")}))
	mustAdd(t, set, callbacks.PoolUnloadedApps, callbacks.NewPlugin("houdini", callbacks.Hooks{"ev": recorder(&calls, "unloaded")}))
	set.SetCurrentApp(callbacks.NewPlugin("maya", callbacks.Hooks{"ev": recorder(&calls, "app")}))

	d := callbacks.NewDispatcher(set, callbacks.HookConfig{}, nil)
	d.Register("ev", recorder(&calls, "registered"), 50)

	all := []callbacks.Pool{
		callbacks.PoolRenderFarmManagers, callbacks.PoolCustom, callbacks.PoolCurrentApp,
		callbacks.PoolProjectManagers, callbacks.PoolUnloadedApps,
	}
	results, err := d.Dispatch("ev", all, callbacks.Args{"name": "x"})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	want := []string{"app", "unloaded", "custom1", "pm", "farm", "registered"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("call order = %v, want %v", calls, want)
	}
	if len(results) != len(want) {
		t.Fatalf("absent handlers must not contribute results: %v", results)
	}
	if cur := d.Current(); cur.Plugin != "farm" || cur.Function != "ev" {
		t.Fatalf("unexpected current callback %+v", cur)
	}
}

func TestDispatchOnlySelectedPools(t *testing.T) {
	set := callbacks.NewPluginSet()
	var calls []string
	mustAdd(t, set, callbacks.PoolProjectManagers, callbacks.NewPlugin("pm", callbacks.Hooks{"ev": recorder(&calls, "pm")}))
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("c", callbacks.Hooks{"ev": recorder(&calls, "c")}))

	d := callbacks.NewDispatcher(set, callbacks.HookConfig{}, nil)
	if _, err := d.Dispatch("ev", []callbacks.Pool{callbacks.PoolCustom}, nil); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(calls, []string{"c"}) {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestCustomPoolIsolatesFailures(t *testing.T) {
	set := callbacks.NewPluginSet()
	var calls []string
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("broken", callbacks.Hooks{
		"ev": func(callbacks.Args) (any, error) { return nil, errors.New("boom") },
	}))
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("panicky", callbacks.Hooks{
		"ev": func(callbacks.Args) (any, error) { panic("kaboom") },
	}))
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("ok", callbacks.Hooks{"ev": recorder(&calls, "ok")}))
	mustAdd(t, set, callbacks.PoolProjectManagers, callbacks.NewPlugin("pm", callbacks.Hooks{"ev": recorder(&calls, "pm")}))

	d := callbacks.NewDispatcher(set, callbacks.HookConfig{}, nil)
	results, err := d.Dispatch("ev", []callbacks.Pool{callbacks.PoolCustom, callbacks.PoolProjectManagers}, nil)
	if err != nil {
		t.Fatalf("custom failures must not propagate: %v", err)
	}
	if !reflect.DeepEqual(results, []any{"ok", "pm"}) {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestProjectManagerFailurePropagates(t *testing.T) {
	set := callbacks.NewPluginSet()
	var calls []string
	boom := errors.New("boom")
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("c", callbacks.Hooks{"ev": recorder(&calls, "c")}))
	mustAdd(t, set, callbacks.PoolProjectManagers, callbacks.NewPlugin("pm", callbacks.Hooks{
		"ev": func(callbacks.Args) (any, error) { return nil, boom },
	}))
	mustAdd(t, set, callbacks.PoolRenderFarmManagers, callbacks.NewPlugin("farm", callbacks.Hooks{"ev": recorder(&calls, "farm")}))

	d := callbacks.NewDispatcher(set, callbacks.HookConfig{}, nil)
	d.Register("ev", recorder(&calls, "registered"), 50)

	results, err := d.Dispatch("ev", []callbacks.Pool{callbacks.PoolCustom, callbacks.PoolProjectManagers, callbacks.PoolRenderFarmManagers}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var herr *callbacks.HandlerError
	if !errors.As(err, &herr) || herr.Pool != callbacks.PoolProjectManagers || herr.Plugin != "pm" {
		t.Fatalf("unexpected handler error %#v", err)
	}
	if !reflect.DeepEqual(calls, []string{"c"}) {
		t.Fatalf("dispatch should stop at the failure, calls = %v", calls)
	}
	if len(results) != 1 {
		t.Fatalf("expected partial results, got %v", results)
	}
}

func TestRegisteredCallbackFailurePropagates(t *testing.T) {
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{}, nil)
	d.Register("ev", func(callbacks.Args) (any, error) { return nil, errors.New("nope") }, 50)
	if _, err := d.Dispatch("ev", nil, nil); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected registered callback error, got %v", err)
	}
}

func TestDisabledCustomPluginsAreSkipped(t *testing.T) {
	set := callbacks.NewPluginSet()
	var calls []string
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("eventlog", callbacks.Hooks{"ev": recorder(&calls, "eventlog")}))
	set.Disable("eventlog")

	d := callbacks.NewDispatcher(set, callbacks.HookConfig{}, nil)
	if _, err := d.Dispatch("ev", []callbacks.Pool{callbacks.PoolCustom}, nil); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Fatalf("disabled plugin ran: %v", calls)
	}
}

func TestPluginSetRejectsDuplicates(t *testing.T) {
	set := callbacks.NewPluginSet()
	mustAdd(t, set, callbacks.PoolCustom, bare{name: "a"})
	if err := set.Add(callbacks.PoolCustom, bare{name: "a"}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if !set.Remove(callbacks.PoolCustom, "a") || set.Remove(callbacks.PoolCustom, "a") {
		t.Fatal("unexpected remove result")
	}
}

type fakeRunner struct {
	paths []string
	args  map[string]any
	err   error
}

func (f *fakeRunner) Run(_ context.Context, path string, args map[string]any) error {
	f.paths = append(f.paths, path)
	f.args = args
	return f.err
}

type popups []string

func (p *popups) Popup(msg string) { *p = append(*p, msg) }

func TestDispatchHookRunsProjectScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "onShotCreated.lua")
	if err := os.WriteFile(script, []byte("-- hook"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script+"c", []byte("compiled"), 0o644); err != nil {
		t.Fatal(err)
	}

	set := callbacks.NewPluginSet()
	var calls []string
	mustAdd(t, set, callbacks.PoolCustom, callbacks.NewPlugin("c", callbacks.Hooks{"onShotCreated": recorder(&calls, "custom")}))
	mustAdd(t, set, callbacks.PoolProjectManagers, callbacks.NewPlugin("pm", callbacks.Hooks{"onShotCreated": recorder(&calls, "pm")}))

	runner := &fakeRunner{}
	var shown popups
	d := callbacks.NewDispatcher(set, callbacks.HookConfig{
		Dir:       func() string { return dir },
		Extension: ".lua",
		Runner:    runner,
		Notifier:  &shown,
	}, nil)

	results, err := d.DispatchHook(context.Background(), "onShotCreated", callbacks.Args{"shot": "sh010"})
	if err != nil {
		t.Fatalf("DispatchHook returned error: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"custom"}) || len(results) != 1 {
		t.Fatalf("hook dispatch must only reach curApp and custom pools: %v", calls)
	}
	if len(runner.paths) != 1 || runner.paths[0] != script || runner.args["shot"] != "sh010" {
		t.Fatalf("script not run as expected: %+v", runner)
	}
	if _, err := os.Stat(script + "c"); !os.IsNotExist(err) {
		t.Fatalf("compiled artifact should be removed, stat err = %v", err)
	}
	if len(shown) != 0 {
		t.Fatalf("unexpected popups %v", shown)
	}
}

func TestDispatchHookScriptFailureBecomesPopup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "preRender.lua"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	var shown popups
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{
		Dir:       func() string { return dir },
		Extension: ".lua",
		Runner:    &fakeRunner{err: errors.New("syntax error")},
		Notifier:  &shown,
	}, nil)

	if _, err := d.DispatchHook(context.Background(), "preRender", nil); err != nil {
		t.Fatalf("script failures must not propagate: %v", err)
	}
	if len(shown) != 1 || !strings.Contains(shown[0], "preRender") || !strings.Contains(shown[0], "syntax error") {
		t.Fatalf("unexpected popups %v", shown)
	}
}

func TestDispatchHookWithoutProjectOrScript(t *testing.T) {
	runner := &fakeRunner{}
	d := callbacks.NewDispatcher(nil, callbacks.HookConfig{
		Dir:       func() string { return "" },
		Extension: ".lua",
		Runner:    runner,
	}, nil)
	if _, err := d.DispatchHook(context.Background(), "x", nil); err != nil {
		t.Fatal(err)
	}

	d = callbacks.NewDispatcher(nil, callbacks.HookConfig{
		Dir:       func() string { return t.TempDir() },
		Extension: ".lua",
		Runner:    runner,
	}, nil)
	if _, err := d.DispatchHook(context.Background(), "x", nil); err != nil {
		t.Fatal(err)
	}
	if len(runner.paths) != 0 {
		t.Fatalf("runner should not be called: %v", runner.paths)
	}
}

func TestParsePool(t *testing.T) {
	p, err := callbacks.ParsePool("prjManagers")
	if err != nil || p != callbacks.PoolProjectManagers {
		t.Fatalf("ParsePool = %v, %v", p, err)
	}
	if _, err := callbacks.ParsePool("bogus"); err == nil {
		t.Fatal("expected error")
	}
}

func mustAdd(t *testing.T, set *callbacks.PluginSet, pool callbacks.Pool, p callbacks.Plugin) {
	t.Helper()
	if err := set.Add(pool, p); err != nil {
		t.Fatalf("Add: %v", err)
	}
}
