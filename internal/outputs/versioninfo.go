package outputs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// VersionInfoFile is the metadata file written into every output version.
const VersionInfoFile = "versioninfo.yml"

// VersionInfo is the content of versioninfo.yml.
type VersionInfo struct {
	Version      string         `yaml:"version"`
	CreatedBy    string         `yaml:"createdBy"`
	CreationDate time.Time      `yaml:"creationDate"`
	SourceScene  string         `yaml:"sourceScene,omitempty"`
	Data         map[string]any `yaml:"data,omitempty"`
}

var now = time.Now

// SaveVersionInfo writes versioninfo.yml into dir.
func SaveVersionInfo(dir, version, user string, data map[string]any, origin string) error {
	info := VersionInfo{
		Version:      version,
		CreatedBy:    user,
		CreationDate: now().UTC().Truncate(time.Second),
		SourceScene:  origin,
		Data:         data,
	}
	raw, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal version info: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create version directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+VersionInfoFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write version info: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close version info: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, VersionInfoFile)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("persist version info: %w", err)
	}
	return nil
}

// LoadVersionInfo reads versioninfo.yml from dir. A missing file yields
// (nil, nil).
func LoadVersionInfo(dir string) (*VersionInfo, error) {
	raw, err := os.ReadFile(filepath.Join(dir, VersionInfoFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read version info: %w", err)
	}
	var info VersionInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse version info: %w", err)
	}
	return &info, nil
}
