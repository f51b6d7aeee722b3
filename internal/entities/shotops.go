package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"prism/internal/configstore"
	"prism/internal/fsutil"
	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/project"
)

// Filesystem operations replaced in tests to simulate files held open.
var (
	removeAll  = os.RemoveAll
	renamePath = os.Rename
)

// DeleteShot removes the shot directory and its local mirror. When another
// process holds files open the user may retry; it returns false when the user
// canceled, leaving whatever was already removed.
func (l *Lifecycle) DeleteShot(shotName string) (bool, error) {
	shotPath := l.EntityPath(project.EntityQuery{Shot: shotName})
	if shotPath == "" {
		return false, fmt.Errorf("%w: no project is open", ErrConfiguration)
	}

	for {
		err := l.removeShot(shotPath)
		if err == nil {
			l.logger.Info("shot deleted", logging.Args(logging.Entity(string(KindShot), shotName)...)...)
			return true, nil
		}
		if !fsutil.IsLockError(err) {
			return false, fmt.Errorf("delete shot %s: %w", shotName, err)
		}

		msg := fmt.Sprintf("Permission denied.\nAnother program uses files in the shotfolder.\n\nThe shot \"%s\" could not be deleted completely.\n\n%v", shotName, err)
		if !l.notifier.RetryOrCancel(msg) {
			l.notifier.Popup("Deleting shot canceled.")
			return false, nil
		}
	}
}

func (l *Lifecycle) removeShot(shotPath string) error {
	for _, dir := range l.mirrors(shotPath) {
		if !exists(dir) {
			continue
		}
		if err := removeAll(dir); err != nil {
			return err
		}
	}
	return nil
}

// RenameShot renames a shot directory and its local mirror, then renames
// every entry below it whose name contains curName. The replacement is a
// plain substring replace, so unrelated entries that happen to contain
// curName are renamed too. The preview image and stored frame range follow
// the new name. It returns false when the user canceled.
func (l *Lifecycle) RenameShot(curName, newName string) (bool, error) {
	if curName == "" || newName == "" {
		return false, fmt.Errorf("%w: shot names must not be empty", ErrInvalidEntity)
	}
	curPath := l.EntityPath(project.EntityQuery{Shot: curName})
	newPath := l.EntityPath(project.EntityQuery{Shot: newName})
	if curPath == "" {
		return false, fmt.Errorf("%w: no project is open", ErrConfiguration)
	}

	pairs := [][2]string{{curPath, newPath}}
	if l.ctx.UseLocalFiles() {
		pairs = append(pairs, [2]string{
			l.ctx.ConvertPath(curPath, project.LocationLocal),
			l.ctx.ConvertPath(newPath, project.LocationLocal),
		})
	}

	for {
		err := l.renameShotTrees(pairs, curName, newName)
		if err == nil {
			break
		}
		if !fsutil.IsLockError(err) {
			return false, fmt.Errorf("rename shot %s: %w", curName, err)
		}

		msg := fmt.Sprintf("Permission denied.\nAnother program uses files in the shotfolder.\n\nThe shot \"%s\" could not be renamed to \"%s\" completely.\n\n%v", curName, newName, err)
		if !l.notifier.RetryOrCancel(msg) {
			l.notifier.Popup("Renaming shot canceled.")
			return false, nil
		}
	}

	if err := l.migrateShotRange(curName, newName); err != nil {
		return true, err
	}
	l.logger.Info("shot renamed",
		logging.String(logging.FieldEntityName, newName),
		logging.String("previous", curName))
	return true, nil
}

func (l *Lifecycle) renameShotTrees(pairs [][2]string, curName, newName string) error {
	for _, pair := range pairs {
		from, to := pair[0], pair[1]
		if exists(from) {
			if err := renamePath(from, to); err != nil {
				return err
			}
		}
		if err := renameEntries(to, curName, newName); err != nil {
			return err
		}
	}

	preview := l.PreviewPath(KindShot, curName)
	if exists(preview) {
		if err := os.Rename(preview, l.PreviewPath(KindShot, newName)); err != nil {
			return err
		}
	}
	return nil
}

// renameEntries renames entries below root deepest first so parents are
// renamed after their children.
func renameEntries(root, curName, newName string) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if path != root && strings.Contains(d.Name(), curName) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range slices.Backward(paths) {
		name := filepath.Base(path)
		target := filepath.Join(filepath.Dir(path), strings.ReplaceAll(name, curName, newName))
		if err := os.Rename(path, target); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lifecycle) migrateShotRange(curName, newName string) error {
	if l.store == nil {
		return nil
	}
	start, end, ok, err := l.ShotRange(curName)
	if err != nil {
		return err
	}
	if ok {
		if err := l.SetShotRange(newName, start, end); err != nil {
			return fmt.Errorf("store frame range: %w", err)
		}
	}
	if err := l.store.Delete(configstore.ShotInfo, shotRangesSection, curName); err != nil {
		return fmt.Errorf("remove frame range: %w", err)
	}
	return nil
}

// SetComment renames a scene file, and its local copy, so the comment field
// reads comment. It returns the new path of the last file moved.
func (l *Lifecycle) SetComment(filePath, comment string) (string, error) {
	data := l.codec.Parse(filePath)
	if !data.Valid() {
		return "", fmt.Errorf("%w: %s is not a scene file", ErrInvalidEntity, filepath.Base(filePath))
	}

	var sources []string
	if l.ctx.UseLocalFiles() {
		sources = append(sources, l.ctx.ConvertPath(filePath, project.LocationLocal))
	}
	sources = append(sources, filePath)

	newPath := ""
	for _, src := range sources {
		if !exists(src) {
			continue
		}
		req := naming.RequestFrom(l.codec.Parse(src))
		req.Comment = comment
		dst := l.codec.Generate(req)
		if err := fsutil.TransferFile(src, dst, fsutil.Move); err != nil {
			return newPath, fmt.Errorf("rename scene file: %w", err)
		}
		newPath = dst
		l.logger.Debug("scene comment changed", logging.String("path", dst))
	}
	return newPath, nil
}
