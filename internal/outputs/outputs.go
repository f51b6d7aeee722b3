package outputs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/project"
	"prism/internal/prompt"
)

// FileNotInPipeline is returned as the output path of files that are not
// asset or shot scene files.
const FileNotInPipeline = "FileNotInPipeline"

// OutputType2D is the only output layout handled here.
const OutputType2D = "2dRender"

const defaultFileType = "exr"

// singleFileFormats are written as one file rather than a frame sequence.
var singleFileFormats = []string{"avi", "mp4", "mov"}

// VersionLookup supplies task versions.
type VersionLookup interface {
	HighestTaskVersion(dir string, getExisting, ignoreEmpty bool) string
}

// Builder computes output locations for one project.
type Builder struct {
	ctx      *project.Context
	versions VersionLookup
	notifier prompt.Notifier
	logger   *slog.Logger

	mu sync.Mutex
	// rendering holds the output of the render in progress, if any.
	rendering string
}

// New creates a Builder.
func New(ctx *project.Context, versions VersionLookup, notifier prompt.Notifier, logger *slog.Logger) *Builder {
	if notifier == nil {
		notifier = prompt.NewLogging(logger)
	}
	return &Builder{
		ctx:      ctx,
		versions: versions,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "outputs"),
	}
}

// Request describes one 2D render output.
type Request struct {
	Entity     naming.Entity
	EntityName string
	Step       string
	Category   string
	Task       string
	// Version is resolved from the task's existing versions when empty.
	Version  string
	FileType string
	Comment  string
	// UseLastVersion reuses the highest existing version instead of the next.
	UseLastVersion bool
	IgnoreEmpty    bool
	// Local places the output under the local mirror.
	Local bool
}

// OutputPath returns the output file path for req and the version it uses.
// Frame sequences carry a "####" placeholder. Entities other than asset and
// shot yield FileNotInPipeline.
func (b *Builder) OutputPath(req Request) (string, string) {
	fileType := req.FileType
	if fileType == "" {
		fileType = defaultFileType
	}
	pad := ".####."
	if slices.Contains(singleFileFormats, fileType) {
		pad = "."
	}
	sep := b.ctx.FilenameSeparator()
	version := req.Version

	var dir, prefix string
	switch req.Entity {
	case naming.EntityAsset:
		dir = filepath.Join(b.ctx.AssetPath(project.LocationGlobal), req.EntityName, project.RenderingDir, OutputType2D, req.Task)
		prefix = req.EntityName
	case naming.EntityShot:
		dir = filepath.Join(b.ctx.ShotPath(project.LocationGlobal), req.EntityName, project.RenderingDir, OutputType2D, req.Task)
		prefix = "shot" + sep + req.EntityName
	default:
		return FileNotInPipeline, version
	}

	if version == "" && b.versions != nil {
		version = b.versions.HighestTaskVersion(dir, req.UseLastVersion, req.IgnoreEmpty)
	}

	versionDir := version
	if req.Comment != "" {
		versionDir += sep + req.Comment
	}
	file := prefix + sep + req.Task + sep + version + pad + fileType
	out := filepath.Join(dir, versionDir, file)

	loc := project.LocationGlobal
	if req.Local {
		loc = project.LocationLocal
	}
	out = b.ctx.ConvertPath(out, loc)
	return filepath.ToSlash(out), version
}

// CompositingRequest describes the 2D output of the open scene file.
type CompositingRequest struct {
	Task           string
	FileType       string
	UseLastVersion bool
	// Render marks the start of a render: the output directory and its
	// versioninfo.yml are created and the path is remembered until
	// FinishRender.
	Render      bool
	Local       bool
	Comment     string
	IgnoreEmpty bool
}

// CompositingOut returns the 2D output path for the open scene file. While a
// render is in progress, non-render requests return the rendering path.
func (b *Builder) CompositingOut(req CompositingRequest) (string, error) {
	current := b.ctx.CurrentFileName()
	data := naming.Parse(current, b.ctx.FilenameSeparator())

	version := ""
	if !b.ctx.SeparateOutputVersionStack() {
		version = data.Version
	}

	out, version := b.OutputPath(Request{
		Entity:         data.Entity,
		EntityName:     data.EntityName,
		Step:           data.Step,
		Category:       data.Category,
		Task:           req.Task,
		Version:        version,
		FileType:       req.FileType,
		Comment:        req.Comment,
		UseLastVersion: req.UseLastVersion,
		IgnoreEmpty:    req.IgnoreEmpty,
		Local:          req.Local,
	})

	if !req.Render || out == FileNotInPipeline {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.rendering != "" {
			return b.rendering, nil
		}
		return out, nil
	}

	dir := filepath.FromSlash(filepath.Dir(out))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.notifier.Popup("Could not create output folder")
		logging.WarnWithContext(b.logger, "output folder not created", "output_dir_failed",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the render location"),
			logging.String(logging.FieldImpact, "render output has no version info"))
		return out, nil
	}

	info := map[string]any{
		"outputType": OutputType2D,
		"entity":     string(data.Entity),
		"entityName": data.EntityName,
		"step":       data.Step,
		"category":   data.Category,
		"task":       req.Task,
		"version":    version,
		"fileType":   req.FileType,
		"comment":    req.Comment,
	}
	if err := SaveVersionInfo(dir, version, b.ctx.User(), info, current); err != nil {
		return out, err
	}

	b.mu.Lock()
	b.rendering = out
	b.mu.Unlock()
	b.logger.Info("render output prepared", logging.String("path", out), logging.String("version", version))
	return out, nil
}

// FinishRender forgets the output of the render in progress.
func (b *Builder) FinishRender() {
	b.mu.Lock()
	b.rendering = ""
	b.mu.Unlock()
}

// LatestCompositingVersion rewrites an output path of some version to the
// same file in the highest existing version of its task. curPath is either
// <task>/<version>/<file> or <task>/<version>/<pass>/<file>.
func (b *Builder) LatestCompositingVersion(curPath string) (string, error) {
	curPath = filepath.FromSlash(curPath)
	curFile := filepath.Base(curPath)
	passName := filepath.Base(filepath.Dir(curPath))
	width := 1 + b.ctx.VersionPadding()

	var curVersion, taskPath string
	if isVersionName(passName, width) {
		curVersion = passName[:width]
		passName = ""
		taskPath = filepath.Dir(filepath.Dir(curPath))
	} else {
		versionDir := filepath.Base(filepath.Dir(filepath.Dir(curPath)))
		curVersion = versionDir[:min(width, len(versionDir))]
		taskPath = filepath.Dir(filepath.Dir(filepath.Dir(curPath)))
	}

	latest := b.versions.HighestTaskVersion(taskPath, true, true)
	entries, err := os.ReadDir(taskPath)
	if err != nil {
		return "", fmt.Errorf("list task versions: %w", err)
	}

	newDir := ""
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), latest) {
			newDir = filepath.Join(taskPath, entry.Name(), passName)
			break
		}
	}
	newPath := filepath.Join(newDir, strings.ReplaceAll(curFile, curVersion, latest))
	return filepath.ToSlash(newPath), nil
}

func isVersionName(name string, width int) bool {
	if len(name) < width || name[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(name[1:width])
	return err == nil
}
