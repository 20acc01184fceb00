package cargo

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// mockRunner is a Runner returning canned metadata.
type mockRunner struct {
	data  []byte
	err   error
	calls int
	paths []string
}

func (m *mockRunner) Metadata(ctx context.Context, manifestPath string) ([]byte, error) {
	m.calls++
	m.paths = append(m.paths, manifestPath)
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

var errNoCargo = errors.New("cargo must not run")

// workspace is an on-disk Cargo workspace:
//
//	root/
//	  Cargo.toml        [workspace] members = ["mylib", "helper"]
//	  Cargo.lock
//	  mylib/Cargo.toml  mylib 2.0.5
//	  mylib/src/lib.rs
//	  helper/Cargo.toml helper 0.3.1
type workspace struct {
	root     string
	metadata *Metadata
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Cargo.toml"), "[workspace]\nmembers = [\"mylib\", \"helper\"]\n")
	writeFile(t, filepath.Join(root, "Cargo.lock"), `version = 3

[[package]]
name = "helper"
version = "0.3.1"

[[package]]
name = "mylib"
version = "2.0.5"
dependencies = ["helper"]
`)
	writeFile(t, filepath.Join(root, "mylib", "Cargo.toml"), "[package]\nname = \"mylib\"\nversion = \"2.0.5\"\n")
	writeFile(t, filepath.Join(root, "mylib", "src", "lib.rs"), "pub fn hello() {}\n")
	writeFile(t, filepath.Join(root, "helper", "Cargo.toml"), "[package]\nname = \"helper\"\nversion = \"0.3.1\"\n")

	mylibID := "path+file://" + filepath.Join(root, "mylib") + "#2.0.5"
	helperID := "path+file://" + filepath.Join(root, "helper") + "#0.3.1"
	m := &Metadata{
		Packages: []Package{
			{
				Name:         "mylib",
				Version:      "2.0.5",
				ID:           mylibID,
				ManifestPath: filepath.Join(root, "mylib", "Cargo.toml"),
				Targets: []Target{{
					Name:       "mylib",
					Kind:       []string{"cdylib"},
					CrateTypes: []string{"cdylib"},
					SrcPath:    filepath.Join(root, "mylib", "src", "lib.rs"),
				}},
			},
			{
				Name:         "helper",
				Version:      "0.3.1",
				ID:           helperID,
				ManifestPath: filepath.Join(root, "helper", "Cargo.toml"),
			},
		},
		WorkspaceMembers: []string{mylibID, helperID},
		WorkspaceRoot:    root,
		TargetDirectory:  filepath.Join(root, "target"),
		Version:          1,
	}
	return &workspace{root: root, metadata: m}
}

func (w *workspace) json(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(w.metadata)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func (w *workspace) writeMetadata(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, w.json(t), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
