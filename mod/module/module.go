// Package module defines the module.Version type identifying a crate along
// with support code for its semantic version.
package module

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// A Version (for clients, a module.Version) represents a specific version
// of a crate identified by its name.
type Version struct {
	Name    string // Crate name as declared in Cargo.toml
	Version string // Declared version string (e.g., "1.0.0")
}

func (v Version) String() string {
	if v.Version == "" {
		return v.Name
	}
	return v.Name + "@" + v.Version
}

// Semver is a parsed major.minor.patch version with optional pre-release
// and build metadata.
type Semver struct {
	Major, Minor, Patch uint64

	Prerelease string // e.g. "-alpha.1", empty when absent
	Build      string // e.g. "+meta", empty when absent
}

func (s Semver) String() string {
	return fmt.Sprintf("%d.%d.%d%s%s", s.Major, s.Minor, s.Patch, s.Prerelease, s.Build)
}

// ParseSemver parses a version as written in a Cargo manifest.
// Unlike semver.IsValid, the shorthand forms "1" and "1.2" and a leading
// "v" are rejected: cargo always records the full triple.
func ParseSemver(s string) (Semver, error) {
	if s == "" || strings.HasPrefix(s, "v") {
		return Semver{}, fmt.Errorf("invalid semantic version %q", s)
	}
	v := "v" + s
	if !semver.IsValid(v) {
		return Semver{}, fmt.Errorf("invalid semantic version %q", s)
	}
	build := semver.Build(v)
	canonical := semver.Canonical(v)
	if canonical != strings.TrimSuffix(v, build) {
		return Semver{}, fmt.Errorf("invalid semantic version %q: want major.minor.patch", s)
	}
	pre := semver.Prerelease(v)
	core := strings.TrimSuffix(canonical, pre)[1:]

	parts := strings.Split(core, ".")
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Semver{}, fmt.Errorf("invalid semantic version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Semver{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: pre,
		Build:      build,
	}, nil
}

// Identity is the resolved identity of the binding crate.
type Identity struct {
	Name    string
	Version Semver
	Dir     string // Root directory holding the crate's Cargo.toml
}
