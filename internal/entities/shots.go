package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"prism/internal/configstore"
	"prism/internal/logging"
	"prism/internal/project"
)

const shotRangesSection = "shotRanges"

// Shot is one listed shot directory.
type Shot struct {
	Sequence string `json:"sequence"`
	Name     string `json:"shot"`
	// FullName is the directory name, sequence and shot joined.
	FullName string `json:"name"`
	Path     string `json:"path"`
}

// SplitShotName splits a shot directory name into sequence and shot on the
// first sequence separator. Names without a separator belong to NoSequence.
func (r *Resolver) SplitShotName(fullName string) (sequence, shot string) {
	sep := r.ctx.SequenceSeparator()
	if fullName != "" && sep != "" {
		if seq, name, ok := strings.Cut(fullName, sep); ok {
			return seq, name
		}
	}
	return NoSequence, fullName
}

// ShotName joins sequence and shot into a directory name.
func (r *Resolver) ShotName(sequence, shot string) string {
	return r.ctx.ShotName(sequence, shot)
}

// Shots lists the shot directories below baseDirs (default: the shot root
// and its local mirror). Omitted shots are dropped and filter must occur in
// the sequence or shot name. Sequences sort alphabetically with NoSequence
// last; shots sort in natural order of their shot name.
func (r *Resolver) Shots(filter string, baseDirs ...string) ([]string, []Shot) {
	if len(baseDirs) == 0 {
		baseDirs = r.mirrors(r.ctx.ShotPath(project.LocationGlobal))
	}

	var dirs []string
	seen := map[string]bool{}
	for _, base := range baseDirs {
		entries, err := os.ReadDir(base)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("shot directory unreadable", logging.String("path", base), logging.Error(err))
			}
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
				continue
			}
			path, err := filepath.Abs(filepath.Join(base, entry.Name()))
			if err != nil || seen[path] {
				continue
			}
			seen[path] = true
			dirs = append(dirs, path)
		}
	}

	var sequences []string
	var shots []Shot
	for _, path := range dirs {
		full := filepath.Base(path)
		if r.IsOmitted(KindShot, full) {
			continue
		}
		seq, name := r.SplitShotName(full)
		if !strings.Contains(seq, filter) && !strings.Contains(name, filter) {
			continue
		}
		if name != "" && !slices.ContainsFunc(shots, func(s Shot) bool { return s.Sequence == seq && s.Name == name }) {
			shots = append(shots, Shot{Sequence: seq, Name: name, FullName: full, Path: path})
		}
		if !slices.Contains(sequences, seq) {
			sequences = append(sequences, seq)
		}
	}

	sort.Strings(sequences)
	if i := slices.Index(sequences, NoSequence); i >= 0 {
		sequences = append(slices.Delete(sequences, i, i+1), NoSequence)
	}

	c := collate.New(language.Und, collate.Numeric)
	sort.SliceStable(shots, func(i, j int) bool {
		return c.CompareString(shots[i].Name, shots[j].Name) < 0
	})
	return sequences, shots
}

// ShotRange returns the stored frame range of a shot.
func (r *Resolver) ShotRange(fullName string) (start, end int, ok bool, err error) {
	if r.store == nil {
		return 0, 0, false, nil
	}
	value, found, err := r.store.Get(configstore.ShotInfo, shotRangesSection, fullName)
	if err != nil || !found {
		return 0, 0, false, err
	}
	bounds, valid := configstore.IntList(value)
	if !valid || len(bounds) != 2 {
		return 0, 0, false, fmt.Errorf("%w: shot range of %s is %v", ErrConfiguration, fullName, value)
	}
	return bounds[0], bounds[1], true, nil
}

// SetShotRange stores the frame range of a shot.
func (r *Resolver) SetShotRange(fullName string, start, end int) error {
	if r.store == nil {
		return fmt.Errorf("%w: no config store", ErrConfiguration)
	}
	if end < start {
		return fmt.Errorf("%w: frame range %d-%d ends before it starts", ErrInvalidEntity, start, end)
	}
	return r.store.Set(configstore.ShotInfo, shotRangesSection, fullName, []int{start, end})
}
