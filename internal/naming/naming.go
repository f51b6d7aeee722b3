package naming

import (
	"path/filepath"
	"strings"

	"prism/internal/project"
)

// Entity classifies a parsed scene file name.
type Entity string

const (
	EntityAsset   Entity = "asset"
	EntityShot    Entity = "shot"
	EntityInvalid Entity = "invalid"
)

// shotMarker is the literal first field of every shot scene file name.
const shotMarker = "shot"

// Scenefile holds the fields encoded in a scene file name.
//
// BasePath and Filename are always populated, even for invalid names, so
// callers can report or skip the file.
type Scenefile struct {
	Entity     Entity `yaml:"entity" json:"entity"`
	EntityName string `yaml:"entityName" json:"entityName"`
	Step       string `yaml:"step" json:"step"`
	Category   string `yaml:"category" json:"category"`
	Version    string `yaml:"version" json:"version"`
	Comment    string `yaml:"comment" json:"comment"`
	User       string `yaml:"user" json:"user"`
	Extension  string `yaml:"extension" json:"extension"`
	BasePath   string `yaml:"basePath" json:"basePath"`
	Filename   string `yaml:"filename" json:"filename"`
}

// Valid reports whether the name classified as an asset or shot.
func (s Scenefile) Valid() bool {
	return s.Entity == EntityAsset || s.Entity == EntityShot
}

// Parse splits the base name of fileName on sep and classifies it by field
// count: 6 is a pre-category asset, 7 an asset, 8 a shot, anything else invalid.
func Parse(fileName, sep string) Scenefile {
	data := Scenefile{Filename: fileName, Entity: EntityInvalid}
	if strings.ContainsAny(fileName, `/\`) {
		data.BasePath = filepath.Dir(fileName)
	}
	if sep == "" {
		return data
	}

	f := strings.Split(filepath.Base(fileName), sep)
	switch len(f) {
	case 6:
		data.Entity = EntityAsset
		data.EntityName, data.Step = f[0], f[1]
		data.Version, data.Comment, data.User, data.Extension = f[2], f[3], f[4], f[5]
	case 7:
		data.Entity = EntityAsset
		data.EntityName, data.Step, data.Category = f[0], f[1], f[2]
		data.Version, data.Comment, data.User, data.Extension = f[3], f[4], f[5], f[6]
	case 8:
		data.Entity = EntityShot
		data.EntityName, data.Step, data.Category = f[1], f[2], f[3]
		data.Version, data.Comment, data.User, data.Extension = f[4], f[5], f[6], f[7]
	}
	return data
}

// VersionSource supplies the next free version for a scene directory.
type VersionSource interface {
	NextVersion(dir string, entity Entity) string
}

// Codec parses and generates scene file names for one project.
type Codec struct {
	ctx      *project.Context
	versions VersionSource
}

// NewCodec creates a Codec. versions may be nil when every Generate call
// carries an explicit version.
func NewCodec(ctx *project.Context, versions VersionSource) *Codec {
	return &Codec{ctx: ctx, versions: versions}
}

// Parse classifies fileName using the project filename separator.
func (c *Codec) Parse(fileName string) Scenefile {
	return Parse(fileName, c.ctx.FilenameSeparator())
}

// Request describes a scene file name to generate.
type Request struct {
	Entity     Entity
	EntityName string
	Step       string
	Category   string
	Version    string
	Comment    string
	User       string
	Extension  string
	// BasePath is the scene directory or the entity root. An asset's
	// relative or absolute path also goes here.
	BasePath string
}

// RequestFrom converts parsed fields back into a Request that regenerates
// the same name in the same directory.
func RequestFrom(s Scenefile) Request {
	return Request{
		Entity:     s.Entity,
		EntityName: s.EntityName,
		Step:       s.Step,
		Category:   s.Category,
		Version:    s.Version,
		Comment:    s.Comment,
		User:       s.User,
		Extension:  s.Extension,
		BasePath:   s.BasePath,
	}
}

// Generate builds the full path of a scene file. It returns "" for entities
// other than asset and shot. An empty version is resolved through the
// configured VersionSource and an empty user falls back to the project user.
func (c *Codec) Generate(req Request) string {
	sep := c.ctx.FilenameSeparator()

	var dir, name string
	switch req.Entity {
	case EntityAsset:
		if inScenefiles(req.BasePath, 1) || inScenefiles(req.BasePath, 2) {
			dir = req.BasePath
		} else {
			dir = c.ctx.EntityPath(project.EntityQuery{Asset: req.BasePath, Step: req.Step, Category: req.Category})
		}

		category := ""
		if !c.ctx.LegacyCategoryFormat() {
			category = req.Category + sep
		}
		version, user := c.resolve(req, dir)
		name = req.EntityName + sep + req.Step + sep + category + version + sep + req.Comment + sep + user

	case EntityShot:
		if inScenefiles(req.BasePath, 2) {
			dir = req.BasePath
		} else {
			dir = c.ctx.EntityPath(project.EntityQuery{Shot: req.EntityName, Step: req.Step, Category: req.Category})
		}

		version, user := c.resolve(req, dir)
		name = shotMarker + sep + req.EntityName + sep + req.Step + sep + req.Category +
			sep + version + sep + req.Comment + sep + user

	default:
		return ""
	}

	if req.Extension != "" {
		name += sep + req.Extension
	}
	return filepath.Join(dir, name)
}

func (c *Codec) resolve(req Request, dir string) (string, string) {
	version := req.Version
	if version == "" && c.versions != nil {
		version = c.versions.NextVersion(dir, req.Entity)
	}
	user := req.User
	if user == "" {
		user = c.ctx.User()
	}
	return version, user
}

// inScenefiles reports whether the ancestor `levels` above path is named
// Scenefiles, meaning path already is a step or category directory.
func inScenefiles(path string, levels int) bool {
	if path == "" {
		return false
	}
	p := filepath.Clean(path)
	for i := 0; i < levels; i++ {
		p = filepath.Dir(p)
	}
	return filepath.Base(p) == project.ScenefilesDir
}
