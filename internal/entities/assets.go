package entities

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"prism/internal/logging"
	"prism/internal/project"
)

// Directory classifications returned by TypeFromPath.
const (
	TypeAsset  = "asset"
	TypeFolder = "folder"
)

var assetMarkers = []string{project.ExportDir, project.PlayblastsDir, project.RenderingDir, project.ScenefilesDir}

// TypeFromPath classifies a directory: an asset directly contains Export,
// Playblasts, Rendering, and Scenefiles; anything else is a folder. It
// returns "" when path cannot be listed.
func (r *Resolver) TypeFromPath(path string) string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	for _, marker := range assetMarkers {
		if !slices.Contains(names, marker) {
			return TypeFolder
		}
	}
	return TypeAsset
}

// AssetPaths walks path (default: the global asset root) and returns the
// asset directories and the asset folders that hold no assets.
//
// depth 0 recurses without limit. depth 1 lists the immediate non-asset
// folders without descending. Larger depths descend depth-1 more levels.
func (r *Resolver) AssetPaths(path string, depth int) (assets, folders []string) {
	if path == "" {
		path = r.ctx.AssetPath(project.LocationGlobal)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("asset directory unreadable", logging.String("path", path), logging.Error(err))
		}
		return nil, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(path, entry.Name())
		if r.TypeFromPath(folder) == TypeAsset {
			assets = append(assets, folder)
			continue
		}
		if depth == 1 {
			folders = append(folders, folder)
			continue
		}

		next := 0
		if depth > 1 {
			next = depth - 1
		}
		childAssets, childFolders := r.AssetPaths(folder, next)
		if len(childAssets) > 0 || len(childFolders) > 0 {
			assets = append(assets, childAssets...)
			folders = append(folders, childFolders...)
		} else {
			folders = append(folders, folder)
		}
	}
	return assets, folders
}

// EmptyAssetFolders returns the most specific asset folders that hold no
// asset anywhere below them. A folder is dropped when an asset lives inside it
// or when a deeper reported folder already lives inside it.
func (r *Resolver) EmptyAssetFolders() []string {
	assets, folders := r.AssetPaths("", 0)

	var empty []string
	for _, folder := range folders {
		if slices.ContainsFunc(assets, func(asset string) bool { return project.Within(asset, folder) }) {
			continue
		}
		if slices.ContainsFunc(folders, func(other string) bool {
			return other != folder && project.Within(other, folder)
		}) {
			continue
		}
		empty = append(empty, folder)
	}
	return empty
}

// AssetPathFromName resolves an asset name to its directory. Absolute paths
// are returned as is; otherwise the relative path is tried first, then the
// first asset whose directory name matches.
func (r *Resolver) AssetPathFromName(name string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, true
	}
	assets, _ := r.AssetPaths("", 0)
	candidate := filepath.Join(r.ctx.AssetPath(project.LocationGlobal), name)
	if slices.Contains(assets, candidate) {
		return candidate, true
	}
	for _, asset := range assets {
		if filepath.Base(asset) == name {
			return asset, true
		}
	}
	return "", false
}

// AssetRelPath returns an asset path relative to the asset root.
func (r *Resolver) AssetRelPath(path string) string {
	return r.ctx.AssetRelPath(path)
}

// AssetNameFromPath returns the asset's directory name.
func (r *Resolver) AssetNameFromPath(path string) string {
	return filepath.Base(path)
}

// AssetFoldersFromPath returns the folder chain above an asset (pathType
// TypeAsset) or including a folder (any other pathType).
func (r *Resolver) AssetFoldersFromPath(path, pathType string) []string {
	rel := r.AssetRelPath(path)
	if rel == "" {
		return nil
	}
	folders := strings.Split(rel, "/")
	if pathType == TypeAsset {
		folders = folders[:len(folders)-1]
	}
	return folders
}

// FilterAssets keeps assets whose path relative to the asset root contains
// filter, ignoring case.
func (r *Resolver) FilterAssets(assets []string, filter string) []string {
	needle := strings.ToLower(filter)
	var out []string
	for _, asset := range assets {
		if strings.Contains(strings.ToLower(r.AssetRelPath(asset)), needle) {
			out = append(out, asset)
		}
	}
	return out
}

// FilterOmittedAssets drops assets in the cached omit list.
func (r *Resolver) FilterOmittedAssets(assets []string) []string {
	var out []string
	for _, asset := range assets {
		if !r.IsOmitted(KindAsset, r.AssetRelPath(asset)) {
			out = append(out, asset)
		}
	}
	return out
}

// PreviewPath returns where the preview image of an asset or shot lives.
func (r *Resolver) PreviewPath(kind Kind, name string) string {
	folder := "Shotinfo"
	if kind == KindAsset {
		folder = "Assetinfo"
	}
	return filepath.Join(r.ctx.PipelinePath(), folder, name+"_preview.jpg")
}
