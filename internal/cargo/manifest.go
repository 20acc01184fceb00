package cargo

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is the part of a Cargo.toml needed to infer the binding crate.
// Other keys are ignored.
type Manifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}
