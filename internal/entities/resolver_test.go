package entities_test

import (
	"path/filepath"
	"slices"
	"testing"

	"prism/internal/configstore"
	"prism/internal/entities"
	"prism/internal/project"
	"prism/internal/testsupport"
)

func newResolver(t *testing.T, opts ...testsupport.ConfigOption) (*entities.Resolver, *project.Context, *configstore.Store) {
	t.Helper()
	ctx, _ := testsupport.NewProject(t, opts...)
	store := configstore.New(ctx.PipelinePath(), nil)
	return entities.NewResolver(ctx, store, nil), ctx, store
}

func TestSplitShotName(t *testing.T) {
	r, _, _ := newResolver(t, testsupport.WithSequenceSeparator("__"))

	tests := []struct {
		full     string
		sequence string
		shot     string
	}{
		{"ep01__sh010", "ep01", "sh010"},
		{"sh010", entities.NoSequence, "sh010"},
		{"ep01__sh010__b", "ep01", "sh010__b"},
	}
	for _, tt := range tests {
		seq, shot := r.SplitShotName(tt.full)
		if seq != tt.sequence || shot != tt.shot {
			t.Errorf("SplitShotName(%q) = (%q, %q), want (%q, %q)", tt.full, seq, shot, tt.sequence, tt.shot)
		}
	}
}

func TestShotsSortingAndFiltering(t *testing.T) {
	r, ctx, _ := newResolver(t)
	base := ctx.ShotPath(project.LocationGlobal)
	for _, name := range []string{"b-sh2", "a-sh10", "a-sh2", "sh1", "_template"} {
		testsupport.MkdirAll(t, filepath.Join(base, name))
	}
	testsupport.Touch(t, filepath.Join(base, "notes.txt"))

	sequences, shots := r.Shots("")
	if want := []string{"a", "b", entities.NoSequence}; !slices.Equal(sequences, want) {
		t.Fatalf("sequences = %v, want %v", sequences, want)
	}
	var names []string
	for _, s := range shots {
		names = append(names, s.FullName)
	}
	if want := []string{"sh1", "a-sh2", "b-sh2", "a-sh10"}; !slices.Equal(names, want) {
		t.Fatalf("shots = %v, want %v", names, want)
	}

	_, filtered := r.Shots("sh1")
	names = names[:0]
	for _, s := range filtered {
		names = append(names, s.FullName)
	}
	if want := []string{"sh1", "a-sh10"}; !slices.Equal(names, want) {
		t.Fatalf("filtered shots = %v, want %v", names, want)
	}
}

func TestShotsSkipsOmitted(t *testing.T) {
	r, ctx, _ := newResolver(t)
	base := ctx.ShotPath(project.LocationGlobal)
	testsupport.MkdirAll(t, filepath.Join(base, "a-sh010"), filepath.Join(base, "b-sh010"))

	if err := r.OmitEntity(entities.KindShot, "b-sh010", true); err != nil {
		t.Fatalf("OmitEntity: %v", err)
	}
	sequences, shots := r.Shots("")
	if !slices.Equal(sequences, []string{"a"}) || len(shots) != 1 {
		t.Fatalf("got sequences %v shots %v", sequences, shots)
	}

	if err := r.OmitEntity(entities.KindShot, "b-sh010", false); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if r.IsOmitted(entities.KindShot, "b-sh010") {
		t.Fatal("shot still omitted after restore")
	}
}

func TestShotsMergesLocalMirror(t *testing.T) {
	r, ctx, _ := newResolver(t, testsupport.WithLocalFiles())
	testsupport.MkdirAll(t,
		filepath.Join(ctx.ShotPath(project.LocationGlobal), "sq-sh010"),
		filepath.Join(ctx.ShotPath(project.LocationLocal), "sq-sh010"),
		filepath.Join(ctx.ShotPath(project.LocationLocal), "sq-sh020"),
	)

	_, shots := r.Shots("")
	if len(shots) != 2 {
		t.Fatalf("expected global and local-only shot, got %v", shots)
	}
	if !project.Within(shots[0].Path, ctx.Root()) {
		t.Fatalf("global shot should be listed first, got %s", shots[0].Path)
	}
}

func TestShotRange(t *testing.T) {
	r, _, _ := newResolver(t)

	if _, _, ok, err := r.ShotRange("sq-sh010"); ok || err != nil {
		t.Fatalf("expected no range, got ok=%v err=%v", ok, err)
	}
	if err := r.SetShotRange("sq-sh010", 1001, 1100); err != nil {
		t.Fatalf("SetShotRange: %v", err)
	}
	start, end, ok, err := r.ShotRange("sq-sh010")
	if err != nil || !ok || start != 1001 || end != 1100 {
		t.Fatalf("ShotRange = %d, %d, %v, %v", start, end, ok, err)
	}
	if err := r.SetShotRange("sq-sh010", 10, 5); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestTypeFromPath(t *testing.T) {
	r, _, _ := newResolver(t)
	dir := t.TempDir()

	complete := testsupport.MakeAsset(t, filepath.Join(dir, "complete"))
	partial := filepath.Join(dir, "partial")
	testsupport.MkdirAll(t,
		filepath.Join(partial, "Export"),
		filepath.Join(partial, "Playblasts"),
		filepath.Join(partial, "Rendering"),
	)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"all markers", complete, entities.TypeAsset},
		{"missing scenefiles", partial, entities.TypeFolder},
		{"empty", t.TempDir(), entities.TypeFolder},
		{"missing", filepath.Join(dir, "nope"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.TypeFromPath(tt.path); got != tt.want {
				t.Fatalf("TypeFromPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func buildAssetTree(t *testing.T, ctx *project.Context) string {
	t.Helper()
	root := ctx.AssetPath(project.LocationGlobal)
	testsupport.MakeAsset(t, filepath.Join(root, "chars", "Body"))
	testsupport.MkdirAll(t,
		filepath.Join(root, "chars", "empty"),
		filepath.Join(root, "env", "sub", "deep"),
		filepath.Join(root, "props"),
	)
	return root
}

func TestAssetPaths(t *testing.T) {
	r, ctx, _ := newResolver(t)
	root := buildAssetTree(t, ctx)

	assets, folders := r.AssetPaths("", 0)
	if want := []string{filepath.Join(root, "chars", "Body")}; !slices.Equal(assets, want) {
		t.Fatalf("assets = %v, want %v", assets, want)
	}
	wantFolders := []string{
		filepath.Join(root, "chars", "empty"),
		filepath.Join(root, "env", "sub", "deep"),
		filepath.Join(root, "props"),
	}
	if !slices.Equal(folders, wantFolders) {
		t.Fatalf("folders = %v, want %v", folders, wantFolders)
	}

	assets, folders = r.AssetPaths("", 1)
	if len(assets) != 0 {
		t.Fatalf("depth 1 should not descend, got assets %v", assets)
	}
	if want := []string{filepath.Join(root, "chars"), filepath.Join(root, "env"), filepath.Join(root, "props")}; !slices.Equal(folders, want) {
		t.Fatalf("depth 1 folders = %v, want %v", folders, want)
	}
}

func TestEmptyAssetFolders(t *testing.T) {
	r, ctx, _ := newResolver(t)
	root := buildAssetTree(t, ctx)

	got := r.EmptyAssetFolders()
	want := []string{
		filepath.Join(root, "chars", "empty"),
		filepath.Join(root, "env", "sub", "deep"),
		filepath.Join(root, "props"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("EmptyAssetFolders = %v, want %v", got, want)
	}
}

func TestAssetLookups(t *testing.T) {
	r, ctx, _ := newResolver(t)
	root := buildAssetTree(t, ctx)
	body := filepath.Join(root, "chars", "Body")

	for _, name := range []string{"chars/Body", "Body", body} {
		path, ok := r.AssetPathFromName(name)
		if !ok || path != body {
			t.Errorf("AssetPathFromName(%q) = %q, %v", name, path, ok)
		}
	}
	if _, ok := r.AssetPathFromName("Tree"); ok {
		t.Error("unknown asset resolved")
	}

	if got := r.AssetRelPath(body); got != "chars/Body" {
		t.Errorf("AssetRelPath = %q", got)
	}
	if got := r.AssetFoldersFromPath(body, entities.TypeAsset); !slices.Equal(got, []string{"chars"}) {
		t.Errorf("AssetFoldersFromPath(asset) = %v", got)
	}
	if got := r.AssetFoldersFromPath(filepath.Join(root, "env", "sub"), entities.TypeFolder); !slices.Equal(got, []string{"env", "sub"}) {
		t.Errorf("AssetFoldersFromPath(folder) = %v", got)
	}
	if got := r.FilterAssets([]string{body}, "CHARS/b"); len(got) != 1 {
		t.Errorf("FilterAssets should match case-insensitively, got %v", got)
	}
	if got := r.FilterAssets([]string{body}, "props"); len(got) != 0 {
		t.Errorf("FilterAssets matched unrelated filter: %v", got)
	}

	if err := r.OmitEntity(entities.KindAsset, "chars/Body", true); err != nil {
		t.Fatalf("OmitEntity: %v", err)
	}
	if got := r.FilterOmittedAssets([]string{body}); len(got) != 0 {
		t.Errorf("FilterOmittedAssets kept %v", got)
	}
	if !r.IsOmitted(entities.KindAssetFolder, "chars/Body") {
		t.Error("asset folders share the asset omit list")
	}
}

func TestStepsAndCategories(t *testing.T) {
	r, ctx, _ := newResolver(t, testsupport.WithLocalFiles())
	global := filepath.Join(ctx.ShotPath(project.LocationGlobal), "sq-sh010", project.ScenefilesDir)
	local := filepath.Join(ctx.ShotPath(project.LocationLocal), "sq-sh010", project.ScenefilesDir)
	testsupport.MkdirAll(t,
		filepath.Join(global, "Anim", "Animation"),
		filepath.Join(global, "Anim", "Blocking"),
		filepath.Join(global, "_old"),
		filepath.Join(local, "Light"),
		filepath.Join(local, "Anim", "Animation"),
	)

	q := project.EntityQuery{Shot: "sq-sh010"}
	if got := r.Steps(q); !slices.Equal(got, []string{"Anim", "Light"}) {
		t.Fatalf("Steps = %v", got)
	}
	q.Step = "Anim"
	if got := r.Categories(q); !slices.Equal(got, []string{"Animation", "Blocking"}) {
		t.Fatalf("Categories = %v", got)
	}
}

func TestScenefiles(t *testing.T) {
	r, ctx, _ := newResolver(t, testsupport.WithLocalFiles())
	rel := filepath.Join("sq-sh010", project.ScenefilesDir, "Anim", "Animation")
	global := filepath.Join(ctx.ShotPath(project.LocationGlobal), rel)
	local := filepath.Join(ctx.ShotPath(project.LocationLocal), rel)

	ma := testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0001_first_rfr_.ma"))
	abc := testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0002_cache_rfr_.abc"))
	testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0003_tmp_rfr_.ma12345"))
	testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0003_x_rfr_.maautosave"))
	testsupport.Touch(t, filepath.Join(global, "notes.txt"))
	testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0002_cache_rfr_.info"))
	testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0002_cache_rfr_.preview.png"))
	bak := testsupport.Touch(t, filepath.Join(global, "shot_sq-sh010_Anim_Animation_v0001_first_rfr_.ma.bak"))
	testsupport.Touch(t, filepath.Join(local, "shot_sq-sh010_Anim_Animation_v0001_first_rfr_.ma"))
	localOnly := testsupport.Touch(t, filepath.Join(local, "shot_sq-sh010_Anim_Animation_v0004_wip_rfr_.mb"))

	q := project.EntityQuery{Shot: "sq-sh010"}

	got := r.Scenefiles(q, nil)
	if want := []string{ma, abc, bak, localOnly}; !sameSet(got, want) {
		t.Fatalf("Scenefiles(default) = %v, want %v", got, want)
	}

	got = r.Scenefiles(q, []string{".ma"})
	if want := []string{ma}; !slices.Equal(got, want) {
		t.Fatalf("Scenefiles(.ma) = %v, want %v", got, want)
	}

	got = r.Scenefiles(q, []string{entities.AnyExtension})
	if want := []string{abc, bak}; !sameSet(got, want) {
		t.Fatalf("Scenefiles(*) = %v, want %v", got, want)
	}

	got = r.Scenefiles(q, []string{".bak"})
	if len(got) != 0 {
		t.Fatalf("Scenefiles(.bak) = %v, want none", got)
	}
	got = r.Scenefiles(q, []string{".ma.bak"})
	if want := []string{bak}; !slices.Equal(got, want) {
		t.Fatalf("Scenefiles(.ma.bak) = %v, want %v", got, want)
	}
}

func sameSet(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestPreviewPath(t *testing.T) {
	r, ctx, _ := newResolver(t)
	want := filepath.Join(ctx.PipelinePath(), "Shotinfo", "sq-sh010_preview.jpg")
	if got := r.PreviewPath(entities.KindShot, "sq-sh010"); got != want {
		t.Fatalf("PreviewPath = %q, want %q", got, want)
	}
}

func TestParseKind(t *testing.T) {
	if _, err := entities.ParseKind("shot"); err != nil {
		t.Fatalf("ParseKind(shot): %v", err)
	}
	if _, err := entities.ParseKind("sequence"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
