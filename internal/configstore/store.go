package configstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"prism/internal/logging"
)

// ErrUnknownConfig is returned for config names that have no registered file.
var ErrUnknownConfig = errors.New("unknown config")

// Names of the project configuration documents.
const (
	Omit     = "omit"
	ShotInfo = "shotinfo"
	Pipeline = "pipeline"
)

var defaultDocuments = map[string]string{
	Omit:     filepath.Join("Configs", "omits.yml"),
	ShotInfo: filepath.Join("Shotinfo", "shotInfo.yml"),
	Pipeline: "pipeline.yml",
}

// Document is the decoded content of one configuration file: section name to
// section value.
type Document map[string]any

// Store reads and writes the named YAML documents of one project.
//
// Every call goes back to disk. Writes hold an exclusive file lock on
// "<file>.lock" for the read-modify-write cycle and replace the file
// atomically, so separate processes never observe partial documents.
type Store struct {
	root   string
	logger *slog.Logger

	mu    sync.Mutex
	files map[string]string
}

// New creates a Store rooted at the project's pipeline directory.
func New(pipelineDir string, logger *slog.Logger) *Store {
	files := make(map[string]string, len(defaultDocuments))
	for name, rel := range defaultDocuments {
		files[name] = rel
	}
	return &Store{
		root:   pipelineDir,
		logger: logging.NewComponentLogger(logger, "configstore"),
		files:  files,
	}
}

// Register maps an additional config name to a path relative to the pipeline
// directory.
func (s *Store) Register(name, relPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = relPath
}

// Names returns the registered config names in sorted order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path resolves the file backing a config name.
func (s *Store) Path(config string) (string, error) {
	s.mu.Lock()
	rel, ok := s.files[config]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownConfig, config)
	}
	if s.root == "" {
		return "", fmt.Errorf("config %q: no project is open", config)
	}
	return filepath.Join(s.root, rel), nil
}

// Load returns the whole document. A missing file yields an empty document.
// Reads never create directories; the shared lock is only taken once the
// document's directory exists.
func (s *Store) Load(config string) (Document, error) {
	path, err := s.Path(config)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("stat config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", config, err)
	}
	defer func() { _ = lock.Unlock() }()

	return readDocument(path)
}

// Get returns section[key], or the whole section when key is "".
func (s *Store) Get(config, section, key string) (any, bool, error) {
	doc, err := s.Load(config)
	if err != nil {
		return nil, false, err
	}
	value, ok := doc[section]
	if !ok || key == "" {
		return value, ok, nil
	}
	m, isMap := asMap(value)
	if !isMap {
		return nil, false, nil
	}
	value, ok = m[key]
	return value, ok, nil
}

// Set stores value at section[key], or replaces the section when key is "".
func (s *Store) Set(config, section, key string, value any) error {
	return s.update(config, func(doc Document) {
		if key == "" {
			doc[section] = value
			return
		}
		m, ok := asMap(doc[section])
		if !ok {
			m = map[string]any{}
		}
		m[key] = value
		doc[section] = m
	})
}

// Delete removes section[key]. When the section is a list, every element equal
// to key is removed instead. An empty key removes the whole section.
func (s *Store) Delete(config, section, key string) error {
	return s.update(config, func(doc Document) {
		if key == "" {
			delete(doc, section)
			return
		}
		switch v := doc[section].(type) {
		case []any:
			kept := v[:0]
			for _, item := range v {
				if fmt.Sprint(item) != key {
					kept = append(kept, item)
				}
			}
			doc[section] = kept
		default:
			if m, ok := asMap(v); ok {
				delete(m, key)
				doc[section] = m
			}
		}
	})
}

func (s *Store) update(config string, mutate func(Document)) error {
	path, err := s.Path(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", config, err)
	}
	defer func() { _ = lock.Unlock() }()

	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	mutate(doc)
	if err := writeDocument(path, doc); err != nil {
		return fmt.Errorf("persist %s: %w", config, err)
	}

	s.logger.Debug("config updated", logging.String("config", config), logging.String("path", path))
	return nil
}

func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	doc := Document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// writeDocument writes the document atomically via a temp file.
func writeDocument(path string, doc Document) error {
	data, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
