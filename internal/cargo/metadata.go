package cargo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata is the subset of `cargo metadata --format-version 1` output
// gbindgen relies on.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	WorkspaceRoot    string    `json:"workspace_root"`
	TargetDirectory  string    `json:"target_directory"`
	Resolve          *Resolve  `json:"resolve"`
	Version          int       `json:"version"`
}

// Package is a package of the resolved workspace or its dependency graph.
type Package struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	ID           string       `json:"id"`
	Source       *string      `json:"source"`
	ManifestPath string       `json:"manifest_path"`
	Dependencies []Dependency `json:"dependencies"`
	Targets      []Target     `json:"targets"`
}

// Dependency is a dependency declared in a package manifest.
type Dependency struct {
	Name     string  `json:"name"`
	Req      string  `json:"req"`
	Kind     *string `json:"kind"`
	Optional bool    `json:"optional"`
	Rename   *string `json:"rename"`
}

// Target is a build target of a package.
type Target struct {
	Name       string   `json:"name"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
	SrcPath    string   `json:"src_path"`
}

// Resolve is the resolved dependency graph.
type Resolve struct {
	Root  *string `json:"root"`
	Nodes []Node  `json:"nodes"`
}

// Node is a package in the resolved dependency graph.
type Node struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
}

// ParseMetadata decodes `cargo metadata` JSON output.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse cargo metadata: %w", err)
	}
	if m.Version != 0 && m.Version != 1 {
		return nil, fmt.Errorf("parse cargo metadata: unsupported format version %d", m.Version)
	}
	return &m, nil
}

// ReadMetadata reads metadata previously written by
// `cargo metadata --format-version 1`.
func ReadMetadata(file string) (*Metadata, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(data)
}

func (m *Metadata) isMember(id string) bool {
	for _, member := range m.WorkspaceMembers {
		if member == id {
			return true
		}
	}
	return false
}

func (m *Metadata) packageByID(id string) *Package {
	for i := range m.Packages {
		if m.Packages[i].ID == id {
			return &m.Packages[i]
		}
	}
	return nil
}

// LibTarget returns the library target of p, if any.
func (p *Package) LibTarget() (Target, bool) {
	for _, t := range p.Targets {
		for _, kind := range t.Kind {
			switch kind {
			case "lib", "rlib", "dylib", "cdylib", "staticlib":
				return t, true
			}
		}
	}
	return Target{}, false
}
