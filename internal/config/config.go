// Package config loads vexel's project manifest and resolves the
// driver-level Options that control a single compile invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional "vexel.yaml" project file. Nothing in the
// core requires one to exist; the driver falls back to flag defaults
// when it doesn't.
type Manifest struct {
	ProjectRoot    string   `yaml:"project_root"`
	DefaultBackend string   `yaml:"default_backend"`
	SearchPaths    []string `yaml:"search_paths"`
	AllowProcess   bool     `yaml:"allow_process"`
}

// LoadManifest reads and parses path. A missing file is not an error —
// callers get a zero-value Manifest and should apply their own defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// FindManifest walks up from dir looking for vexel.yaml and returns the
// first one found. The loader does no such search: it takes its project
// root as given.
func FindManifest(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, "vexel.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Options holds the driver-level settings threaded through a single
// compile invocation. Backends do not see this struct: backend.Context
// carries their own backend.Options.
type Options struct {
	ProjectRoot  string
	Backend      string
	AllowProcess bool
	EmitFacts    bool
	OutputPath   string
	BackendArgs  []string
}

// Merge layers manifest defaults under any flags the user set explicitly
// (flags always win).
func (o *Options) Merge(m *Manifest) {
	if o.ProjectRoot == "" {
		o.ProjectRoot = m.ProjectRoot
	}
	if o.Backend == "" {
		o.Backend = m.DefaultBackend
	}
	if !o.AllowProcess {
		o.AllowProcess = m.AllowProcess
	}
}
