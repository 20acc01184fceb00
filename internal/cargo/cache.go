package cargo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Cache directory layout:
//
//	dir/
//	  <sha256>.json   # metadataEntry for one manifest path
//
// An entry records the digest of every file its metadata was computed
// from: the located manifest, the workspace manifest, the manifests of the
// local packages and the lockfile. It is served only while all of them are
// unchanged.

// metadataEntry is one cached `cargo metadata` result.
type metadataEntry struct {
	Metadata json.RawMessage   `json:"metadata"`
	Inputs   map[string]string `json:"inputs"` // file => sha256, "" when absent
	Created  time.Time         `json:"created"`
}

// MetadataCache stores `cargo metadata` output between runs.
type MetadataCache struct {
	dir string
}

// NewMetadataCache returns a cache rooted at dir.
func NewMetadataCache(dir string) *MetadataCache {
	return &MetadataCache{dir: dir}
}

func (c *MetadataCache) key(manifestPath string) string {
	sum := sha256.Sum256([]byte(manifestPath))
	return hex.EncodeToString(sum[:])
}

func (c *MetadataCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *MetadataCache) get(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var entry metadataEntry
	if err := json.Unmarshal(data, &entry); err != nil || len(entry.Metadata) == 0 || len(entry.Inputs) == 0 {
		return nil, false
	}
	for file, want := range entry.Inputs {
		got, err := fileDigest(file)
		if err != nil || got != want {
			return nil, false
		}
	}
	return entry.Metadata, true
}

func (c *MetadataCache) set(key string, metadata []byte, inputs []string) error {
	digests := make(map[string]string, len(inputs))
	for _, file := range inputs {
		d, err := fileDigest(file)
		if err != nil {
			return err
		}
		digests[file] = d
	}
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(&metadataEntry{
		Metadata: metadata,
		Inputs:   digests,
		Created:  time.Now(),
	})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *MetadataCache) remove(key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// fileDigest returns the hex SHA-256 of file, or "" if it does not exist.
func fileDigest(file string) (string, error) {
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// metadataInputs lists the files m was computed from.
func metadataInputs(manifestPath, lockPath string, m *Metadata) []string {
	files := []string{manifestPath}
	if lockPath != "" {
		files = append(files, lockPath)
	}
	if m.WorkspaceRoot != "" {
		files = append(files,
			filepath.Join(m.WorkspaceRoot, manifestFile),
			filepath.Join(m.WorkspaceRoot, lockFile))
	}
	for _, p := range m.Packages {
		// Registry and git packages are immutable for a given lockfile.
		if p.Source == nil && p.ManifestPath != "" {
			files = append(files, p.ManifestPath)
		}
	}
	return files
}
