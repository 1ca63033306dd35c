package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadManifestMissingFileReturnsZeroValue(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "vexel.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Manifest{}, m); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vexel.yaml")
	writeFile(t, path, `
project_root: /srv/app
default_backend: interp
search_paths:
  - vendor
  - std
allow_process: true
`)

	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Manifest{
		ProjectRoot:    "/srv/app",
		DefaultBackend: "interp",
		SearchPaths:    []string{"vendor", "std"},
		AllowProcess:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsMergeFlagsWin(t *testing.T) {
	opts := &Options{Backend: "dump", AllowProcess: true}
	opts.Merge(&Manifest{ProjectRoot: "/repo", DefaultBackend: "interp", AllowProcess: false})

	want := &Options{ProjectRoot: "/repo", Backend: "dump", AllowProcess: true}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsMergeFillsEmptyFields(t *testing.T) {
	opts := &Options{}
	opts.Merge(&Manifest{ProjectRoot: "/repo", DefaultBackend: "interp", AllowProcess: true})

	want := &Options{ProjectRoot: "/repo", Backend: "interp", AllowProcess: true}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
