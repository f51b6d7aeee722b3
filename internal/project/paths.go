package project

import (
	"path/filepath"
	"strings"
)

// EntityQuery identifies an entity directory. Asset wins over Shot when both
// are set. Asset may be relative to the asset root or absolute.
type EntityQuery struct {
	// Entity is "step" to request the Scenefiles directory when no step is given.
	Entity   string
	Asset    string
	Sequence string
	Shot     string
	Step     string
	Category string
}

// EntityPath maps an entity query to its global scene directory. It returns
// "" when neither an asset nor a shot is given.
func (c *Context) EntityPath(q EntityQuery) string {
	var path string
	switch {
	case q.Asset != "":
		asset := q.Asset
		if filepath.IsAbs(asset) {
			asset = c.AssetRelPath(asset)
		}
		path = filepath.Join(c.AssetPath(LocationGlobal), asset)
	case q.Shot != "":
		shot := q.Shot
		if q.Sequence != "" {
			shot = c.ShotName(q.Sequence, shot)
		}
		path = filepath.Join(c.ShotPath(LocationGlobal), shot)
	default:
		return ""
	}

	if q.Entity == "step" && q.Step == "" {
		path = filepath.Join(path, ScenefilesDir)
	}

	if q.Step != "" {
		path = filepath.Join(path, ScenefilesDir, q.Step)
		if (q.Asset == "" || !c.LegacyCategoryFormat()) && q.Category != "" {
			path = filepath.Join(path, q.Category)
		}
	}
	return path
}

// ShotName joins a sequence and shot with the sequence separator.
func (c *Context) ShotName(sequence, shot string) string {
	return sequence + c.seqSep + shot
}

// AssetRelPath returns path relative to the global asset root, with any
// local root rewritten first.
func (c *Context) AssetRelPath(path string) string {
	path = c.ConvertPath(path, LocationGlobal)
	if rel, ok := within(path, c.AssetPath(LocationGlobal)); ok {
		return filepath.ToSlash(rel)
	}
	return strings.Trim(filepath.ToSlash(path), "/")
}

// EntityBasePath returns the asset or shot directory owning a scene file, or
// "" when the file is outside the entity roots.
func (c *Context) EntityBasePath(filePath string) string {
	loc := c.LocationOf(filePath)

	levels := 0
	switch {
	case Within(filePath, c.AssetPath(loc)):
		levels = 4
		if c.LegacyCategoryFormat() {
			levels = 3
		}
	case Within(filePath, c.ShotPath(loc)):
		levels = 4
	default:
		return ""
	}

	base := filepath.Clean(filePath)
	for i := 0; i < levels; i++ {
		base = filepath.Dir(base)
	}
	return base
}
