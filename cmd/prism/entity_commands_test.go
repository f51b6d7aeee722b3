package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShotLifecycleCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"shot", "create", "sh010", "--sequence", "sq010", "--range", "1001-1100"}, env.configPath)
	if err != nil {
		t.Fatalf("shot create: %v", err)
	}
	requireContains(t, out, "Created shot sq010-sh010")
	shotPath := filepath.Join(env.projectPath, "03_Workflow", "Shots", "sq010-sh010")
	if _, err := os.Stat(filepath.Join(shotPath, "Scenefiles")); err != nil {
		t.Fatalf("expected shot folders: %v", err)
	}

	out, _, err = runCLI(t, []string{"shot", "create", "sq010-sh010"}, env.configPath)
	if err != nil {
		t.Fatalf("shot create twice: %v", err)
	}
	requireContains(t, out, "Exists shot sq010-sh010")

	out, _, err = runCLI(t, []string{"shots"}, env.configPath)
	if err != nil {
		t.Fatalf("shots: %v", err)
	}
	requireContains(t, out, "sq010")
	requireContains(t, out, "1001-1100")

	out, _, err = runCLI(t, []string{"shots", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("shots --json: %v", err)
	}
	requireContains(t, out, `"name": "sq010-sh010"`)

	out, _, err = runCLI(t, []string{"shot", "range", "sq010-sh010"}, env.configPath)
	if err != nil {
		t.Fatalf("shot range: %v", err)
	}
	requireContains(t, out, "sq010-sh010: 1001-1100")

	out, _, err = runCLI(t, []string{"shot", "rename", "sq010-sh010", "sq010-sh020"}, env.configPath)
	if err != nil {
		t.Fatalf("shot rename: %v", err)
	}
	requireContains(t, out, "Renamed shot sq010-sh010 to sq010-sh020")

	out, _, err = runCLI(t, []string{"shot", "range", "sq010-sh020"}, env.configPath)
	if err != nil {
		t.Fatalf("shot range after rename: %v", err)
	}
	requireContains(t, out, "sq010-sh020: 1001-1100")

	out, _, err = runCLI(t, []string{"shot", "delete", "sq010-sh020"}, env.configPath)
	if err != nil {
		t.Fatalf("shot delete: %v", err)
	}
	requireContains(t, out, "Deleted shot sq010-sh020")

	out, _, err = runCLI(t, []string{"shots"}, env.configPath)
	if err != nil {
		t.Fatalf("shots after delete: %v", err)
	}
	requireContains(t, out, "No shots found")
}

func TestOmitAndRestoreShot(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"shot", "create", "sq010-sh010"}, env.configPath); err != nil {
		t.Fatalf("shot create: %v", err)
	}
	out, _, err := runCLI(t, []string{"omit", "shot", "sq010-sh010"}, env.configPath)
	if err != nil {
		t.Fatalf("omit: %v", err)
	}
	requireContains(t, out, "Omitted shot sq010-sh010")

	out, _, err = runCLI(t, []string{"shots"}, env.configPath)
	if err != nil {
		t.Fatalf("shots: %v", err)
	}
	requireContains(t, out, "No shots found")

	if _, _, err := runCLI(t, []string{"restore", "shot", "sq010-sh010"}, env.configPath); err != nil {
		t.Fatalf("restore: %v", err)
	}
	out, _, err = runCLI(t, []string{"shots"}, env.configPath)
	if err != nil {
		t.Fatalf("shots after restore: %v", err)
	}
	requireContains(t, out, "sh010")

	if _, _, err := runCLI(t, []string{"omit", "step", "Anim"}, env.configPath); err == nil {
		t.Fatal("expected steps to be rejected")
	}
}

func TestAssetAndStepCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"asset", "create", "char/Hero"}, env.configPath)
	if err != nil {
		t.Fatalf("asset create: %v", err)
	}
	requireContains(t, out, "Created asset")

	out, _, err = runCLI(t, []string{"step", "create", "Rig", "--asset", "char/Hero", "--no-category"}, env.configPath)
	if err != nil {
		t.Fatalf("step create: %v", err)
	}
	requireContains(t, out, "Rig")

	out, _, err = runCLI(t, []string{"steps", "--asset", "char/Hero"}, env.configPath)
	if err != nil {
		t.Fatalf("steps: %v", err)
	}
	requireContains(t, out, "Rig")

	out, _, err = runCLI(t, []string{"assets"}, env.configPath)
	if err != nil {
		t.Fatalf("assets: %v", err)
	}
	requireContains(t, out, "Hero")
}

func TestNameAndVersionCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"name", "parse", "shot_a-0010_anim_main_v0002_blocking_rfr_.ma", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("name parse: %v", err)
	}
	requireContains(t, out, `"entityName": "a-0010"`)
	requireContains(t, out, `"version": "v0002"`)

	sceneDir := filepath.Join(env.projectPath, "03_Workflow", "Shots", "a-0010", "Scenefiles", "anim", "main")
	if err := os.MkdirAll(sceneDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sceneDir, "shot_a-0010_anim_main_v0002_blocking_rfr_.ma"), nil, 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	out, _, err = runCLI(t, []string{"version", "next", sceneDir}, env.configPath)
	if err != nil {
		t.Fatalf("version next: %v", err)
	}
	if strings.TrimSpace(out) != "v0003" {
		t.Fatalf("version next = %q, want v0003", out)
	}

	out, _, err = runCLI(t, []string{"name", "generate", "--entity", "shot", "--name", "a-0010", "--step", "anim", "--category", "main", "--ext", ".ma"}, env.configPath)
	if err != nil {
		t.Fatalf("name generate: %v", err)
	}
	requireContains(t, out, "shot_a-0010_anim_main_v0003__rfr_.ma")

	out, _, err = runCLI(t, []string{"scenefiles", "--shot", "a-0010", "--step", "anim", "--category", "main"}, env.configPath)
	if err != nil {
		t.Fatalf("scenefiles: %v", err)
	}
	requireContains(t, out, "v0002")

	if _, _, err := runCLI(t, []string{"name", "generate", "--entity", "prop"}, env.configPath); err == nil {
		t.Fatal("expected invalid entity to fail")
	}
}

func TestHookRunWithoutScript(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"hook", "run", "postSave", "--arg", "filepath=/tmp/x.ma"}, env.configPath)
	if err != nil {
		t.Fatalf("hook run: %v", err)
	}
	requireContains(t, out, "Hook postSave dispatched")

	if _, _, err := runCLI(t, []string{"hook", "run", "postSave", "--arg", "broken"}, env.configPath); err == nil {
		t.Fatal("expected malformed argument to fail")
	}
}

func TestParseFrameRange(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1001-1100", []int{1001, 1100}, false},
		{"10", nil, true},
		{"20-10", nil, true},
		{"a-b", nil, true},
	}
	for _, tt := range tests {
		got, err := parseFrameRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseFrameRange(%q) error = %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("parseFrameRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("parseFrameRange(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}
