package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"prism/internal/config"
)

// Location selects one of the two project storage roots.
type Location string

const (
	LocationGlobal Location = "global"
	LocationLocal  Location = "local"
)

// legacyCategoryVersion is the first project format that stores an asset
// category segment in scene paths and names.
const legacyCategoryVersion = "v1.2.1.6"

// Entity folder names created under every asset and shot.
const (
	ScenefilesDir = "Scenefiles"
	ExportDir     = "Export"
	PlayblastsDir = "Playblasts"
	RenderingDir  = "Rendering"
)

// ExportRoot is a named storage root that may hold task outputs.
type ExportRoot struct {
	Name string
	Path string
}

// Option customizes a Context during construction.
type Option func(*Context)

// WithCurrentFile installs the provider used to answer "which scene file is
// open right now".
func WithCurrentFile(fn func() string) Option {
	return func(c *Context) {
		c.currentFile = fn
	}
}

// Context carries the identity of the open project. It is built once when a
// project is opened and replaced wholesale on project switch.
type Context struct {
	root                string
	localRoot           string
	useLocal            bool
	formatVersion       string
	user                string
	fileSep             string
	seqSep              string
	versionPadding      int
	framePadding        int
	assetDir            string
	shotDir             string
	pipelineDir         string
	separateOutputStack bool
	exportRoots         []ExportRoot
	sceneFormats        []string
	currentFile         func() string
}

// New builds a Context from loaded configuration.
func New(cfg *config.Config, opts ...Option) (*Context, error) {
	if cfg == nil {
		return nil, fmt.Errorf("project context: config is nil")
	}

	c := &Context{
		root:                cfg.Project.Path,
		localRoot:           cfg.Project.LocalPath,
		useLocal:            cfg.LocalFilesEnabled(),
		formatVersion:       cfg.Project.FormatVersion,
		user:                cfg.Project.User,
		fileSep:             cfg.Naming.FilenameSeparator,
		seqSep:              cfg.Naming.SequenceSeparator,
		versionPadding:      cfg.Naming.VersionPadding,
		framePadding:        cfg.Naming.FramePadding,
		assetDir:            cfg.Layout.AssetDir,
		shotDir:             cfg.Layout.ShotDir,
		pipelineDir:         cfg.Layout.PipelineDir,
		separateOutputStack: cfg.Project.SeparateOutputVersionStack,
		sceneFormats:        append([]string(nil), cfg.Plugins.SceneFormats...),
		currentFile:         func() string { return os.Getenv("PRISM_CURRENT_FILE") },
	}

	if c.root != "" {
		c.exportRoots = append(c.exportRoots, ExportRoot{Name: string(LocationGlobal), Path: c.root})
		if c.useLocal {
			c.exportRoots = append(c.exportRoots, ExportRoot{Name: string(LocationLocal), Path: c.localRoot})
		}
	}
	names := make([]string, 0, len(cfg.Project.ExportPaths))
	for name := range cfg.Project.ExportPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.exportRoots = append(c.exportRoots, ExportRoot{Name: name, Path: cfg.Project.ExportPaths[name]})
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Context) Open() bool { return c.root != "" }

func (c *Context) Root() string { return c.root }

func (c *Context) LocalRoot() string { return c.localRoot }

func (c *Context) UseLocalFiles() bool { return c.useLocal }

func (c *Context) FormatVersion() string { return c.formatVersion }

func (c *Context) User() string { return c.user }

func (c *Context) FilenameSeparator() string { return c.fileSep }

func (c *Context) SequenceSeparator() string { return c.seqSep }

func (c *Context) VersionPadding() int { return c.versionPadding }

func (c *Context) FramePadding() int { return c.framePadding }

// SeparateOutputVersionStack reports whether output versions are tracked
// independently from scene file versions.
func (c *Context) SeparateOutputVersionStack() bool { return c.separateOutputStack }

// SceneFormats returns the scene extensions owned by render-engine integrations.
func (c *Context) SceneFormats() []string {
	return append([]string(nil), c.sceneFormats...)
}

// CurrentFileName returns the scene file open in the host application, or "".
func (c *Context) CurrentFileName() string {
	if c.currentFile == nil {
		return ""
	}
	return c.currentFile()
}

// RootFor returns the project root for the given location.
func (c *Context) RootFor(loc Location) string {
	if loc == LocationLocal {
		return c.localRoot
	}
	return c.root
}

// AssetPath returns the asset base directory under the given location.
func (c *Context) AssetPath(loc Location) string {
	return c.join(loc, c.assetDir)
}

// ShotPath returns the shot base directory under the given location.
func (c *Context) ShotPath(loc Location) string {
	return c.join(loc, c.shotDir)
}

// PipelinePath returns the global pipeline directory holding project config.
func (c *Context) PipelinePath() string {
	return c.join(LocationGlobal, c.pipelineDir)
}

// HooksPath returns the directory holding per-project hook scripts.
func (c *Context) HooksPath() string {
	if c.root == "" {
		return ""
	}
	return filepath.Join(c.PipelinePath(), "Hooks")
}

func (c *Context) join(loc Location, rel string) string {
	root := c.RootFor(loc)
	if root == "" {
		return ""
	}
	return filepath.Join(root, rel)
}

// LocationOf reports which root a path lives under. Paths outside both
// roots are treated as global.
func (c *Context) LocationOf(path string) Location {
	if c.useLocal {
		if _, ok := within(path, c.localRoot); ok {
			return LocationLocal
		}
	}
	return LocationGlobal
}

// ConvertPath rewrites path from one project root to the other. Paths that
// do not live under the source root are returned unchanged.
func (c *Context) ConvertPath(path string, target Location) string {
	if c.root == "" || c.localRoot == "" {
		return path
	}
	from, to := c.localRoot, c.root
	if target == LocationLocal {
		from, to = c.root, c.localRoot
	}
	rel, ok := within(path, from)
	if !ok {
		return path
	}
	if rel == "" {
		return to
	}
	return filepath.Join(to, rel)
}

// ExportRoots returns the global root, the local root when enabled, and every
// configured export root sorted by name.
func (c *Context) ExportRoots() []ExportRoot {
	return append([]ExportRoot(nil), c.exportRoots...)
}

// VersionFormat renders n as a zero padded version tag such as v0002.
func (c *Context) VersionFormat(n int) string {
	return fmt.Sprintf("v%0*d", c.versionPadding, n)
}

// LegacyCategoryFormat reports whether the project predates asset categories.
func (c *Context) LegacyCategoryFormat() bool {
	return CompareVersions(c.formatVersion, legacyCategoryVersion) == Lower
}

// Comparison is the outcome of CompareVersions.
type Comparison string

const (
	Lower  Comparison = "lower"
	Equal  Comparison = "equal"
	Higher Comparison = "higher"
)

// CompareVersions compares dotted version strings numerically. A leading
// "v" is ignored and missing or non-numeric components count as zero.
func CompareVersions(a, b string) Comparison {
	pa := versionParts(a)
	pb := versionParts(b)
	n := max(len(pa), len(pb))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return Lower
		case x > y:
			return Higher
		}
	}
	return Equal
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err == nil {
			parts[i] = n
		}
	}
	return parts
}

// within reports whether path equals base or lives below it, returning the
// relative remainder.
func within(path, base string) (string, bool) {
	if base == "" || path == "" {
		return "", false
	}
	path = filepath.Clean(path)
	base = filepath.Clean(base)
	if path == base {
		return "", true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):], true
	}
	return "", false
}

// Within reports whether path equals base or lives below it.
func Within(path, base string) bool {
	_, ok := within(path, base)
	return ok
}
