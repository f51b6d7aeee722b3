package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prism/internal/callbacks"
	"prism/internal/entities"
	"prism/internal/pipeline"
	"prism/internal/testsupport"
)

type popupRecorder struct{ popups []string }

func (p *popupRecorder) Popup(msg string)          { p.popups = append(p.popups, msg) }
func (p *popupRecorder) Question(string) bool      { return false }
func (p *popupRecorder) RetryOrCancel(string) bool { return false }

func TestCoreCreateShotRunsPlugins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen []string
	recorder := callbacks.NewPlugin("recorder", callbacks.Hooks{
		entities.EventShotCreated: func(args callbacks.Args) (any, error) {
			seen = append(seen, args["shot"].(string))
			return "ok", nil
		},
	})

	core, err := pipeline.New(cfg, pipeline.Options{Logger: logger, Plugins: []callbacks.Plugin{recorder}})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	res, err := core.Entities.CreateShot("sq-sh010", nil)
	if err != nil || res.Existed {
		t.Fatalf("CreateShot = %+v, %v", res, err)
	}
	if len(seen) != 1 || seen[0] != "sh010" {
		t.Fatalf("recorder saw %v", seen)
	}
	if !strings.Contains(buf.String(), `"msg":"entity event"`) || !strings.Contains(buf.String(), entities.EventShotCreated) {
		t.Fatalf("event log plugin did not log the event:\n%s", buf.String())
	}
}

func TestCoreDisabledPlugins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Plugins.Disabled = []string{pipeline.EventLogName}

	core, err := pipeline.New(cfg, pipeline.Options{})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	for _, p := range core.Plugins.Members(callbacks.PoolCustom) {
		if p.Name() == pipeline.EventLogName {
			t.Fatal("disabled plugin still receives callbacks")
		}
	}
}

func TestCoreHookScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	notifier := &popupRecorder{}
	core, err := pipeline.New(cfg, pipeline.Options{Notifier: notifier})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	script := `
function main(args)
  if args.fail then
    error("hook refused " .. args.shot)
  end
  log("saw " .. args.shot)
end
`
	hooks := core.Project.HooksPath()
	testsupport.MkdirAll(t, hooks)
	if err := os.WriteFile(filepath.Join(hooks, "postSaveScene.lua"), []byte(script), 0o644); err != nil {
		t.Fatalf("write hook: %v", err)
	}

	if _, err := core.Hook(context.Background(), "postSaveScene", callbacks.Args{"shot": "sh010"}); err != nil {
		t.Fatalf("Hook: %v", err)
	}
	if len(notifier.popups) != 0 {
		t.Fatalf("unexpected popups %v", notifier.popups)
	}

	if _, err := core.Hook(context.Background(), "postSaveScene", callbacks.Args{"shot": "sh010", "fail": true}); err != nil {
		t.Fatalf("failing hook should not return an error: %v", err)
	}
	if len(notifier.popups) != 1 || !strings.Contains(notifier.popups[0], "postSaveScene hook") {
		t.Fatalf("expected hook failure popup, got %v", notifier.popups)
	}
}

func TestCoreHooksDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Hooks.Enabled = false
	notifier := &popupRecorder{}
	core, err := pipeline.New(cfg, pipeline.Options{Notifier: notifier})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	hooks := core.Project.HooksPath()
	testsupport.MkdirAll(t, hooks)
	if err := os.WriteFile(filepath.Join(hooks, "x.lua"), []byte(`error("boom")`), 0o644); err != nil {
		t.Fatalf("write hook: %v", err)
	}
	if _, err := core.Hook(context.Background(), "x", nil); err != nil || len(notifier.popups) != 0 {
		t.Fatalf("hooks disabled but script ran: %v %v", err, notifier.popups)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := pipeline.New(nil, pipeline.Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestCoreHookWithoutProjectStillDispatchesPlugins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Project.Path = ""

	calls := 0
	plugin := callbacks.NewPlugin("listener", callbacks.Hooks{
		"onSceneOpen": func(callbacks.Args) (any, error) {
			calls++
			return "seen", nil
		},
	})
	core, err := pipeline.New(cfg, pipeline.Options{Plugins: []callbacks.Plugin{plugin}})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	results, err := core.Hook(context.Background(), "onSceneOpen", nil)
	if err != nil {
		t.Fatalf("Hook: %v", err)
	}
	if calls != 1 || len(results) != 1 || results[0] != "seen" {
		t.Fatalf("custom plugin calls = %d, results = %v", calls, results)
	}
}
