package entities

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/project"
)

// AnyExtension in an extension list admits files that no integration owns.
const AnyExtension = "*"

const autosaveSuffix = "autosave"

// Steps lists the step directories of the entity in q.
func (r *Resolver) Steps(q project.EntityQuery) []string {
	q.Entity = "step"
	q.Step, q.Category = "", ""
	return r.listDirs(r.EntityPath(q))
}

// Categories lists the category directories of q.Step.
func (r *Resolver) Categories(q project.EntityQuery) []string {
	q.Category = ""
	if q.Step == "" {
		return nil
	}
	return r.listDirs(r.EntityPath(q))
}

func (r *Resolver) listDirs(path string) []string {
	if path == "" {
		return nil
	}
	var names []string
	for _, dir := range r.mirrors(path) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || strings.HasPrefix(name, "_") || slices.Contains(names, name) {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Scenefiles walks the scene directory of q recursively and returns every
// parseable scene file whose extension is in extensions. A nil extensions
// list means the registered scene formats plus AnyExtension. The global copy
// of a file wins over its local mirror.
func (r *Resolver) Scenefiles(q project.EntityQuery, extensions []string) []string {
	path := r.EntityPath(q)
	if path == "" {
		return nil
	}
	if extensions == nil {
		extensions = append(r.ctx.SceneFormats(), AnyExtension)
	}

	var files []string
	seen := map[string]bool{}
	for _, dir := range r.mirrors(path) {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.IsDir() || seen[d.Name()] || !r.isScenefile(p, extensions) {
				return nil
			}
			seen[d.Name()] = true
			files = append(files, p)
			return nil
		})
		if err != nil {
			r.logger.Debug("scene directory walk failed", logging.String("path", dir), logging.Error(err))
		}
	}
	return files
}

func (r *Resolver) isScenefile(path string, extensions []string) bool {
	data := naming.Parse(path, r.ctx.FilenameSeparator())
	if !data.Valid() {
		return false
	}
	ext := data.Extension
	if ext == "" || strings.HasSuffix(path, autosaveSuffix) {
		return false
	}
	if len(ext) >= 5 {
		if _, err := strconv.Atoi(ext[len(ext)-5:]); err == nil {
			return false
		}
	}

	if slices.Contains(extensions, ext) {
		return true
	}
	if !slices.Contains(extensions, AnyExtension) || slices.Contains(r.ctx.SceneFormats(), ext) {
		return false
	}
	// Version info and preview sidecars are never scene files.
	return !strings.Contains(ext, "info") && !strings.Contains(ext, "preview")
}
