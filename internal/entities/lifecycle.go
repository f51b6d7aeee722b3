package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"prism/internal/callbacks"
	"prism/internal/configstore"
	"prism/internal/fsutil"
	"prism/internal/logging"
	"prism/internal/naming"
	"prism/internal/project"
	"prism/internal/prompt"
)

// Pipeline config location of the step -> default category table.
const (
	pipelineGlobalsSection = "globals"
	pipelineStepsKey       = "pipeline_steps"
)

// createDefaultCategoryKey is the onStepCreated setting plugins may flip.
const createDefaultCategoryKey = "createDefaultCategory"

// Lifecycle creates, renames, and deletes entities on disk and announces
// new ones through the event dispatcher.
//
// User-facing failures are reported through the notifier and the operation
// returns an empty result with a nil error. Errors are returned for failures
// the user cannot act on.
type Lifecycle struct {
	*Resolver
	codec    *naming.Codec
	events   EventDispatcher
	notifier prompt.Notifier
	logger   *slog.Logger
}

// NewLifecycle wires a Lifecycle. events may be nil to create entities
// silently.
func NewLifecycle(resolver *Resolver, codec *naming.Codec, events EventDispatcher, notifier prompt.Notifier, logger *slog.Logger) *Lifecycle {
	if notifier == nil {
		notifier = prompt.NewLogging(logger)
	}
	return &Lifecycle{
		Resolver: resolver,
		codec:    codec,
		events:   events,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "lifecycle"),
	}
}

func (l *Lifecycle) fire(event string, pools []callbacks.Pool, args callbacks.Args) error {
	if l.events == nil {
		return nil
	}
	if _, err := l.events.Dispatch(event, pools, args); err != nil {
		return fmt.Errorf("dispatch %s: %w", event, err)
	}
	return nil
}

var customPool = []callbacks.Pool{callbacks.PoolCustom}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *Lifecycle) absAssetPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.ctx.AssetPath(project.LocationGlobal), filepath.FromSlash(name))
}

// CreateEntity creates an asset, asset folder, or shot. When the entity
// already exists the user is told so, or offered to restore it when it is
// omitted.
func (l *Lifecycle) CreateEntity(kind Kind, name string, frameRange []int) (Result, error) {
	var (
		result Result
		err    error
	)
	switch kind {
	case KindAsset:
		result, err = l.CreateAsset(name)
	case KindAssetFolder:
		result, err = l.CreateAssetFolder(name)
	case KindShot:
		result, err = l.CreateShot(name, frameRange)
	default:
		return Result{}, fmt.Errorf("%w: cannot create %s", ErrInvalidEntity, kind)
	}
	if err != nil || !result.Existed {
		return result, err
	}

	entityName := name
	if kind != KindShot {
		entityName = l.AssetRelPath(l.absAssetPath(name))
	}
	if l.IsOmitted(kind, entityName) {
		question := fmt.Sprintf("The %s %s already exists, but is marked as omitted.\n\nDo you want to restore it?", kind, entityName)
		if l.notifier.Question(question) {
			if err := l.OmitEntity(kind, entityName, false); err != nil {
				return result, err
			}
		}
		return result, nil
	}
	l.notifier.Popup(fmt.Sprintf("The %s already exists:\n\n%s", kind, entityName))
	return result, nil
}

// CreateAssetFolder creates a folder in the asset hierarchy.
func (l *Lifecycle) CreateAssetFolder(folderPath string) (Result, error) {
	path := l.absAssetPath(folderPath)
	existed := exists(path)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{}, fmt.Errorf("create asset folder: %w", err)
	}

	rel := l.AssetRelPath(path)
	if !existed {
		if err := l.fire(EventAssetFolderCreated, customPool, callbacks.Args{
			"entityName": rel,
			"entityPath": path,
		}); err != nil {
			return Result{}, err
		}
	}

	result := Result{Entity: KindAssetFolder, EntityName: rel, EntityPath: path, Existed: existed}
	l.logger.Debug("asset folder created", logging.String(logging.FieldEntityName, rel), logging.Bool("existed", existed))
	return result, nil
}

// CreateAsset creates an asset directory with its standard subfolders.
// Creation events fire only for new assets.
func (l *Lifecycle) CreateAsset(assetPath string) (Result, error) {
	path := l.absAssetPath(assetPath)
	existed := exists(path)

	for _, folder := range entityFolders {
		if err := os.MkdirAll(filepath.Join(path, filepath.FromSlash(folder)), 0o755); err != nil {
			return Result{}, fmt.Errorf("create asset: %w", err)
		}
	}

	name := l.AssetNameFromPath(path)
	if !existed {
		args := callbacks.Args{"entityName": name, "entityPath": path}
		if err := l.fire(EventAssetCreated, customPool, args); err != nil {
			return Result{}, err
		}
		if err := l.fire(EventProjectAssetCreated, []callbacks.Pool{callbacks.PoolProjectManagers}, args); err != nil {
			return Result{}, err
		}
	}

	l.logger.Debug("asset created",
		logging.String(logging.FieldEntityName, name),
		logging.String("path", path),
		logging.Bool("existed", existed))
	return Result{Entity: KindAsset, EntityName: name, EntityPath: path, Existed: existed}, nil
}

// CreateShot creates a shot directory with its standard subfolders and
// stores frameRange ([start, end]) when given. Missing permissions are
// reported to the user and yield an empty Result.
func (l *Lifecycle) CreateShot(shotName string, frameRange []int) (Result, error) {
	base := l.EntityPath(project.EntityQuery{Shot: shotName})
	if base == "" {
		return Result{}, fmt.Errorf("%w: no project is open", ErrConfiguration)
	}
	existed := exists(base)

	for _, folder := range entityFolders {
		dir := filepath.Join(base, filepath.FromSlash(folder))
		if exists(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			if errors.Is(err, fs.ErrPermission) || fsutil.IsPermissionError(err) {
				l.notifier.Popup(fmt.Sprintf("Missing permissions to create folder:\n\n%s", dir))
				return Result{}, nil
			}
			return Result{}, fmt.Errorf("create shot: %w", err)
		}
	}

	if len(frameRange) == 2 {
		if err := l.SetShotRange(shotName, frameRange[0], frameRange[1]); err != nil {
			return Result{}, fmt.Errorf("store frame range: %w", err)
		}
	}

	if !existed {
		sequence, shot := l.SplitShotName(shotName)
		if err := l.fire(EventShotCreated, customPool, callbacks.Args{
			"sequence":   sequence,
			"shot":       shot,
			"entityPath": base,
		}); err != nil {
			return Result{}, err
		}
	}

	l.logger.Debug("shot created", logging.Args(append(logging.Entity(string(KindShot), shotName), logging.Bool("existed", existed))...)...)
	return Result{Entity: KindShot, EntityName: shotName, EntityPath: base, Existed: existed}, nil
}

// StepRequest describes a step to create. Path overrides the location
// derived from Entity and EntityName.
type StepRequest struct {
	Name       string
	Entity     Kind
	EntityName string
	Path       string
	// SkipDefaultCategory suppresses the default category.
	SkipDefaultCategory bool
}

// CreateStep creates a step directory and, unless suppressed, its default
// category. It returns the category path when one was created, else the
// step path. "" means the user was told why nothing was created.
func (l *Lifecycle) CreateStep(req StepRequest) (string, error) {
	entity := req.Entity
	if entity == "" {
		entity = KindShot
	}

	path := req.Path
	if path == "" {
		switch entity {
		case KindAsset:
			assetPath, ok := l.AssetPathFromName(req.EntityName)
			if !ok {
				l.notifier.Popup(fmt.Sprintf("Asset '%s' doesn't exist. Could not create step.", req.EntityName))
				return "", nil
			}
			path = l.EntityPath(project.EntityQuery{Asset: assetPath, Step: req.Name})
		case KindShot:
			path = l.EntityPath(project.EntityQuery{Shot: req.EntityName, Step: req.Name})
		default:
			return "", fmt.Errorf("%w: steps belong to assets or shots, not %s", ErrInvalidEntity, entity)
		}
	}

	existed := exists(path)
	if !existed {
		if err := os.MkdirAll(path, 0o755); err != nil {
			l.notifier.Popup(fmt.Sprintf("The directory %s could not be created", req.Name))
			return "", nil
		}
	}

	settings := map[string]any{
		createDefaultCategoryKey: (entity == KindShot || !l.ctx.LegacyCategoryFormat()) && !req.SkipDefaultCategory,
	}
	if err := l.fire(EventStepCreated, customPool, callbacks.Args{
		"entity":   string(entity),
		"step":     req.Name,
		"stepPath": path,
		"settings": settings,
	}); err != nil {
		return "", err
	}

	if existed {
		l.logger.Debug("step already exists", logging.String("path", path))
	} else {
		l.logger.Debug("step created", logging.String("path", path))
	}

	if create, _ := settings[createDefaultCategoryKey].(bool); create {
		return l.CreateDefaultCategory(req.Name, path)
	}
	return path, nil
}

// CreateDefaultCategory creates the category configured for step in the
// pipeline config.
func (l *Lifecycle) CreateDefaultCategory(step, stepPath string) (string, error) {
	var defaults map[string]string
	if l.store != nil {
		value, _, err := l.store.Get(configstore.Pipeline, pipelineGlobalsSection, pipelineStepsKey)
		if err != nil {
			return "", fmt.Errorf("read pipeline steps: %w", err)
		}
		defaults = configstore.StringMap(value)
	}

	category, ok := defaults[step]
	if !ok {
		l.notifier.Popup(fmt.Sprintf("Step '%s' doesn't exist in the project config. Couldn't create default category.", step))
		return "", nil
	}
	return l.CreateCategory(category, filepath.Join(stepPath, category))
}

// CreateCategory creates category below path. path may already end in the
// category name.
func (l *Lifecycle) CreateCategory(name, path string) (string, error) {
	if filepath.Base(path) != name {
		path = filepath.Join(path, name)
	}

	if exists(path) {
		l.logger.Debug("category already exists", logging.String("path", path))
		return path, nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		l.notifier.Popup(fmt.Sprintf("The directory %s could not be created", path))
		return "", nil
	}
	if err := l.fire(EventCategoryCreated, customPool, callbacks.Args{
		"category":     name,
		"categoryPath": path,
	}); err != nil {
		return "", err
	}
	l.logger.Debug("category created", logging.String("path", path))
	return path, nil
}
