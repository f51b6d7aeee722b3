package outputs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"prism/internal/naming"
	"prism/internal/project"
)

// Task types listed by TaskNames.
const (
	TaskExport    = "export"
	TaskRender    = "render"
	Task2D        = "2d"
	TaskPlayblast = "playblast"
	TaskExternal  = "external"
)

var taskDirs = map[string]string{
	TaskExport:    project.ExportDir,
	TaskRender:    filepath.Join(project.RenderingDir, "3dRender"),
	Task2D:        filepath.Join(project.RenderingDir, OutputType2D),
	TaskPlayblast: project.PlayblastsDir,
	TaskExternal:  filepath.Join(project.RenderingDir, "external"),
}

// VideoFormats are the media extensions written as a single file.
var VideoFormats = []string{".mp4", ".mov"}

// MediaConversionOutputPath returns where a converted copy of inputPath with
// extension ext is written. The copy lands in a sibling of the version
// directory suffixed "(<ext>)"; for 2d, playblast, and external tasks the
// input's own directory is suffixed instead. Converting a video to images
// yields a printf-style frame pattern.
func (b *Builder) MediaConversionOutputPath(task, inputPath, ext string) string {
	suffix := "(" + strings.TrimPrefix(ext, ".") + ")"

	var out string
	if strings.HasSuffix(task, " (external)") || strings.HasSuffix(task, " (2d)") || strings.HasSuffix(task, " (playblast)") {
		out = filepath.Join(filepath.Dir(inputPath)+suffix, filepath.Base(inputPath))
	} else {
		versionDir := filepath.Dir(inputPath)
		out = filepath.Join(filepath.Dir(versionDir)+suffix, filepath.Base(versionDir), filepath.Base(inputPath))
	}

	inputExt := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(out, filepath.Ext(out))
	videoIn := slices.Contains(VideoFormats, inputExt)
	videoOut := slices.Contains(VideoFormats, ext)

	switch {
	case videoOut && !videoIn:
		frameSuffix := b.ctx.FramePadding() + 1
		if len(stem) >= frameSuffix {
			stem = stem[:len(stem)-frameSuffix]
		}
		return stem + ext
	case videoIn && !videoOut:
		return fmt.Sprintf("%s.%%0%dd%s", stem, b.ctx.FramePadding(), ext)
	default:
		return stem + ext
	}
}

// TaskNames lists the task directories of taskType below basePath and its
// local mirror. With an empty basePath the entity of the open scene file is
// used, and the categories of its step are listed as well.
func (b *Builder) TaskNames(taskType, basePath string) []string {
	var stepPath string
	if basePath == "" {
		current := b.ctx.CurrentFileName()
		data := naming.Parse(current, b.ctx.FilenameSeparator())
		switch data.Entity {
		case naming.EntityAsset:
			basePath = b.ctx.EntityBasePath(current)
		case naming.EntityShot:
			if project.Within(current, b.ctx.ShotPath(b.ctx.LocationOf(current))) {
				basePath = filepath.Join(b.ctx.ShotPath(project.LocationGlobal), data.EntityName)
			}
		}
		if basePath == "" {
			return nil
		}
		basePath = b.ctx.ConvertPath(basePath, project.LocationGlobal)
		stepPath = filepath.Join(basePath, project.ScenefilesDir, data.Step)
	}

	sub, ok := taskDirs[taskType]
	if !ok {
		return nil
	}

	dirs := []string{filepath.Join(basePath, sub)}
	if b.ctx.UseLocalFiles() {
		dirs = append(dirs, b.ctx.ConvertPath(dirs[0], project.LocationLocal))
	}
	if stepPath != "" {
		dirs = append(dirs, stepPath)
	}

	var tasks []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && !slices.Contains(tasks, entry.Name()) {
				tasks = append(tasks, entry.Name())
			}
		}
	}
	return tasks
}
