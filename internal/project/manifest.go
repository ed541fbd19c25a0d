// Package project locates and loads the optional floe.toml manifest that
// configures indexing for a source tree.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file floe looks for when discovering a project.
const ManifestName = "floe.toml"

// Manifest is the on-disk project configuration. All fields are optional;
// the zero manifest indexes the working directory with defaults.
type Manifest struct {
	// Project carries presentation metadata.
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`

	// Index configures what gets indexed and how.
	Index struct {
		// Roots are directories to index, relative to the manifest.
		Roots []string `toml:"roots"`
		// Exclude lists glob patterns matched against slash-separated
		// relative paths.
		Exclude []string `toml:"exclude"`
		// Jobs bounds parallelism; 0 means GOMAXPROCS.
		Jobs int `toml:"jobs"`
		// Cache toggles the on-disk AST cache. Defaults to true.
		Cache *bool `toml:"cache"`
	} `toml:"index"`

	Trace struct {
		Level string `toml:"level"`
	} `toml:"trace"`

	// Dir is the directory the manifest was loaded from; empty for the
	// default manifest.
	Dir string `toml:"-"`
}

// CacheEnabled resolves the cache toggle with its default.
func (m *Manifest) CacheEnabled() bool {
	return m.Index.Cache == nil || *m.Index.Cache
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Discover walks up from dir looking for floe.toml. A missing manifest is
// not an error; the zero manifest is returned instead.
func Discover(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return &Manifest{}, nil
		}
		dir = parent
	}
}

// Excluded reports whether a relative path matches any exclude pattern.
func (m *Manifest) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range m.Index.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		// Also match against the basename so `__pycache__` style patterns
		// exclude whole subtrees.
		for _, part := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

// ListPythonFiles returns the sorted .py files under root, honoring the
// exclude patterns.
func (m *Manifest) ListPythonFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != root && m.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".py") || m.Excluded(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
