package cargo

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Lock is a parsed Cargo.lock.
type Lock struct {
	Version  int           `toml:"version"`
	Packages []LockPackage `toml:"package"`
}

// LockPackage is a [[package]] entry of Cargo.lock.
type LockPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// LoadLock reads and parses the lockfile at path.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Lock
	if _, err := toml.Decode(string(data), &l); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &l, nil
}

// Versions returns the locked versions of the package called name.
func (l *Lock) Versions(name string) []string {
	var versions []string
	for _, p := range l.Packages {
		if p.Name == name {
			versions = append(versions, p.Version)
		}
	}
	return versions
}
