package versioning

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/project"
)

// versionInfoPrefix marks the metadata file written next to outputs. A task
// version directory holding only this file counts as empty.
const versionInfoPrefix = "versioninfo"

// Resolver computes existing and next versions by listing project directories.
type Resolver struct {
	ctx        *project.Context
	logger     *slog.Logger
	taskPrefix *regexp.Regexp
}

// New creates a Resolver for the given project.
func New(ctx *project.Context, logger *slog.Logger) *Resolver {
	return &Resolver{
		ctx:        ctx,
		logger:     logging.NewComponentLogger(logger, "versioning"),
		taskPrefix: regexp.MustCompile(`^v\d{` + strconv.Itoa(ctx.VersionPadding()) + `}`),
	}
}

// Query narrows a HighestVersion lookup.
type Query struct {
	Dir string
	// Entity restricts candidates to one entity type. When empty it is
	// inferred from whether Dir lives under the asset or shot root.
	Entity naming.Entity
	// Extensions restricts candidates by file extension. Empty means any.
	Extensions []string
	// GlobalOnly skips the local mirror.
	GlobalOnly bool
}

// Highest returns the largest version among the immediate scene files of
// q.Dir and its local mirror, together with the file holding it. It returns
// (0, "") when nothing qualifies.
func (r *Resolver) Highest(q Query) (int, string) {
	entity := q.Entity
	if entity == "" {
		entity = r.inferEntity(q.Dir)
		if entity == "" {
			return 0, ""
		}
	}

	dirs := []string{q.Dir}
	if r.ctx.UseLocalFiles() && !q.GlobalOnly {
		global := r.ctx.ConvertPath(q.Dir, project.LocationGlobal)
		dirs = []string{global, r.ctx.ConvertPath(global, project.LocationLocal)}
	}

	var files []string
	for _, dir := range dirs {
		files = append(files, r.listFiles(dir)...)
	}

	padding := r.ctx.VersionPadding()
	sep := r.ctx.FilenameSeparator()
	highest, path := 0, ""
	for _, file := range files {
		if len(q.Extensions) > 0 && !slices.Contains(q.Extensions, filepath.Ext(file)) {
			continue
		}
		data := naming.Parse(file, sep)
		if data.Entity != entity {
			continue
		}
		version, ok := parseVersion(data.Version, padding)
		if !ok {
			continue
		}
		if version > highest {
			highest, path = version, file
		}
	}
	return highest, path
}

// HighestVersion is Highest for one directory and entity type.
func (r *Resolver) HighestVersion(dir string, entity naming.Entity) (int, string) {
	return r.Highest(Query{Dir: dir, Entity: entity})
}

// NextVersion formats one past the highest existing version in dir.
func (r *Resolver) NextVersion(dir string, entity naming.Entity) string {
	highest, _ := r.HighestVersion(dir, entity)
	return r.ctx.VersionFormat(highest + 1)
}

// HighestTaskVersion scans the version directories of an output task across
// every export root.
//
// When getExisting is false and output versions are not tracked separately,
// the version of the currently open scene file is returned instead (v0001 when
// that file does not parse). When getExisting is true the highest existing
// version is returned, falling back to the first version when none exists.
func (r *Resolver) HighestTaskVersion(dir string, getExisting, ignoreEmpty bool) string {
	roots := r.ctx.ExportRoots()
	projectRoot := r.ctx.Root()

	for _, root := range roots {
		dir = swapRoot(dir, root.Path, projectRoot)
	}

	var taskDirs []string
	for _, root := range roots {
		opath := swapRoot(dir, projectRoot, root.Path)
		entries, err := os.ReadDir(opath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("task directory unreadable", logging.String("path", opath), logging.Error(err))
			}
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if ignoreEmpty && isEmptyVersionDir(filepath.Join(opath, entry.Name())) {
				continue
			}
			taskDirs = append(taskDirs, entry.Name())
		}
	}

	padding := r.ctx.VersionPadding()
	highest := 0
	for _, name := range taskDirs {
		fields := strings.Split(name, r.ctx.FilenameSeparator())
		if len(fields) < 1 || len(fields) > 3 {
			continue
		}
		if !r.taskPrefix.MatchString(fields[0]) {
			continue
		}
		version, err := strconv.Atoi(fields[0][1 : 1+padding])
		if err != nil {
			continue
		}
		highest = max(highest, version)
	}

	if !getExisting && !r.ctx.SeparateOutputVersionStack() {
		data := naming.Parse(r.ctx.CurrentFileName(), r.ctx.FilenameSeparator())
		if data.Entity != naming.EntityInvalid {
			return data.Version
		}
		return r.ctx.VersionFormat(1)
	}

	if getExisting && highest != 0 {
		return r.ctx.VersionFormat(highest)
	}
	return r.ctx.VersionFormat(highest + 1)
}

func (r *Resolver) inferEntity(dir string) naming.Entity {
	global := r.ctx.ConvertPath(dir, project.LocationGlobal)
	switch {
	case project.Within(global, r.ctx.AssetPath(project.LocationGlobal)):
		return naming.EntityAsset
	case project.Within(global, r.ctx.ShotPath(project.LocationGlobal)):
		return naming.EntityShot
	}
	return ""
}

func (r *Resolver) listFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("scene directory unreadable", logging.String("path", dir), logging.Error(err))
		}
		return nil
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files
}

// parseVersion reads the trailing padding digits of a version tag such as v0012.
func parseVersion(version string, padding int) (int, bool) {
	if len(version) > padding {
		version = version[len(version)-padding:]
	}
	n, err := strconv.Atoi(version)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isEmptyVersionDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	switch len(entries) {
	case 0:
		return true
	case 1:
		return strings.HasPrefix(entries[0].Name(), versionInfoPrefix)
	default:
		return false
	}
}

func swapRoot(path, from, to string) string {
	if from == "" || to == "" || from == to {
		return path
	}
	rel, err := filepath.Rel(from, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return to
	}
	return filepath.Join(to, rel)
}
