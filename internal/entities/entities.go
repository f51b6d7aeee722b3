package entities

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"prism/internal/callbacks"
	"prism/internal/configstore"
	"prism/internal/logging"
	"prism/internal/project"
)

var (
	// ErrConfiguration marks project configuration that cannot satisfy a request.
	ErrConfiguration = errors.New("project configuration")
	// ErrInvalidEntity marks entity kinds or names an operation cannot handle.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrNotFound marks lookups of entities that do not exist.
	ErrNotFound = errors.New("entity not found")
)

// Kind is the type of a production entity.
type Kind string

const (
	KindAsset       Kind = "asset"
	KindAssetFolder Kind = "assetFolder"
	KindShot        Kind = "shot"
	KindStep        Kind = "step"
	KindCategory    Kind = "category"
)

// ParseKind validates a kind name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindAsset, KindAssetFolder, KindShot, KindStep, KindCategory:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidEntity, name)
}

// NoSequence is the sequence name of shots without a sequence separator.
const NoSequence = "no sequence"

// Event names fired when entities are created.
const (
	EventAssetCreated       = "onAssetCreated"
	EventAssetFolderCreated = "onAssetFolderCreated"
	EventShotCreated        = "onShotCreated"
	EventStepCreated        = "onStepCreated"
	EventCategoryCreated    = "onCategoryCreated"
	// EventProjectAssetCreated notifies project managers of a new asset.
	EventProjectAssetCreated = "assetCreated"
)

// entityFolders are created under every asset and shot.
var entityFolders = []string{
	project.ScenefilesDir,
	project.ExportDir,
	project.PlayblastsDir,
	"Rendering/3dRender",
	"Rendering/2dRender",
}

// Result reports the outcome of an entity creation.
type Result struct {
	Entity     Kind   `json:"entity"`
	EntityName string `json:"entityName"`
	EntityPath string `json:"entityPath"`
	Existed    bool   `json:"existed"`
}

// ConfigStore is the key-value configuration port used for omit lists, shot
// frame ranges, and the pipeline step table.
type ConfigStore interface {
	Get(config, section, key string) (any, bool, error)
	Set(config, section, key string, value any) error
	Delete(config, section, key string) error
}

// Resolver maps entities to directories and discovers existing entities by
// listing the filesystem. The omitted-entity lists are cached and only
// reloaded by RefreshOmitted.
type Resolver struct {
	ctx    *project.Context
	store  ConfigStore
	logger *slog.Logger

	mu      sync.RWMutex
	omitted map[Kind][]string
}

// NewResolver creates a Resolver and loads the omitted-entity lists.
func NewResolver(ctx *project.Context, store ConfigStore, logger *slog.Logger) *Resolver {
	r := &Resolver{
		ctx:     ctx,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "entities"),
		omitted: map[Kind][]string{},
	}
	if err := r.RefreshOmitted(); err != nil {
		logging.WarnWithContext(r.logger, "failed to load omitted entities", "omit_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the omit config file"),
			logging.String(logging.FieldImpact, "omitted entities are listed"))
	}
	return r
}

// Context returns the project the resolver works on.
func (r *Resolver) Context() *project.Context { return r.ctx }

// RefreshOmitted reloads the omitted-entity lists from the config store.
func (r *Resolver) RefreshOmitted() error {
	omitted := map[Kind][]string{}
	if r.store != nil && r.ctx.Open() {
		for _, kind := range []Kind{KindShot, KindAsset} {
			value, _, err := r.store.Get(configstore.Omit, string(kind), "")
			if err != nil {
				return fmt.Errorf("load omitted %s entities: %w", kind, err)
			}
			omitted[kind] = configstore.StringList(value)
		}
	}
	omitted[KindAssetFolder] = omitted[KindAsset]

	r.mu.Lock()
	r.omitted = omitted
	r.mu.Unlock()
	return nil
}

// Omitted returns the cached omitted names for kind.
func (r *Resolver) Omitted(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.omitted[kind])
}

// IsOmitted reports whether name is in the cached omit list for kind.
func (r *Resolver) IsOmitted(kind Kind, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.omitted[kind], name)
}

// OmitEntity hides (omit) or restores an entity and refreshes the cache.
// Asset folders share the asset list.
func (r *Resolver) OmitEntity(kind Kind, name string, omit bool) error {
	if kind == KindAssetFolder {
		kind = KindAsset
	}
	if kind != KindAsset && kind != KindShot {
		return fmt.Errorf("%w: %s cannot be omitted", ErrInvalidEntity, kind)
	}
	if r.store == nil {
		return fmt.Errorf("%w: no config store", ErrConfiguration)
	}

	if omit {
		value, _, err := r.store.Get(configstore.Omit, string(kind), "")
		if err != nil {
			return fmt.Errorf("read omit list: %w", err)
		}
		omits := configstore.StringList(value)
		if !slices.Contains(omits, name) {
			omits = append(omits, name)
		}
		if err := r.store.Set(configstore.Omit, string(kind), "", omits); err != nil {
			return fmt.Errorf("write omit list: %w", err)
		}
		r.logger.Debug("omitted entity", logging.Args(logging.Entity(string(kind), name)...)...)
	} else {
		if err := r.store.Delete(configstore.Omit, string(kind), name); err != nil {
			return fmt.Errorf("write omit list: %w", err)
		}
		r.logger.Debug("restored entity", logging.Args(logging.Entity(string(kind), name)...)...)
	}
	return r.RefreshOmitted()
}

// EntityPath maps an entity query to its global scene directory.
func (r *Resolver) EntityPath(q project.EntityQuery) string {
	return r.ctx.EntityPath(q)
}

// mirrors returns dir as global path plus its local mirror when local files
// are enabled.
func (r *Resolver) mirrors(dir string) []string {
	if !r.ctx.UseLocalFiles() {
		return []string{dir}
	}
	global := r.ctx.ConvertPath(dir, project.LocationGlobal)
	return []string{global, r.ctx.ConvertPath(global, project.LocationLocal)}
}

// EventDispatcher is the part of the callback dispatcher lifecycle code needs.
type EventDispatcher interface {
	Dispatch(name string, pools []callbacks.Pool, args callbacks.Args) ([]any, error)
}
