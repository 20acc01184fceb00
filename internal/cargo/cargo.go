// Package cargo locates the binding crate of a Cargo package or workspace.
//
// Load gathers the workspace metadata (from a precomputed file, the
// metadata cache or `cargo metadata`), reads the lockfile when there is
// one and selects the crate the bindings are generated for.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goplus/gbindgen/internal/logging"
	"github.com/goplus/gbindgen/mod/module"
)

const (
	manifestFile = "Cargo.toml"
	lockFile     = "Cargo.lock"
)

// LocationError reports a package or workspace that could not be
// resolved, or a binding crate whose version is not a semantic version.
type LocationError struct {
	Path string
	Err  error
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("locate crate %s: %v", e.Path, e.Err)
}

func (e *LocationError) Unwrap() error { return e.Err }

// Options contains options for Load.
type Options struct {
	// Lockfile overrides the lockfile path. By default Cargo.lock in the
	// workspace root is used when it exists.
	Lockfile string
	// Crate names the binding crate. By default it is the package of the
	// located Cargo.toml.
	Crate string
	// Clean discards cached metadata and runs cargo again.
	Clean bool
	// MetadataFile is a precomputed `cargo metadata --format-version 1`
	// output. When set, cargo is not run and the cache is not used.
	MetadataFile string

	// Runner runs cargo. Defaults to NewRunner().
	Runner Runner
	// Cache stores metadata between runs. nil disables caching.
	Cache *MetadataCache
	// Logger defaults to logging.Discard.
	Logger logging.Logger
}

// Cargo is a loaded workspace together with its binding crate.
type Cargo struct {
	Metadata *Metadata
	Lock     *Lock // nil when no lockfile could be loaded

	input   string
	binding *Package
	log     logging.Logger
}

// Load resolves the workspace enclosing input, which is a crate directory
// or a file inside one.
func Load(ctx context.Context, input string, opts Options) (*Cargo, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard
	}
	input, err := filepath.Abs(input)
	if err != nil {
		return nil, &LocationError{Path: input, Err: err}
	}
	start := input
	if fi, err := os.Stat(input); err != nil {
		return nil, &LocationError{Path: input, Err: err}
	} else if !fi.IsDir() {
		start = filepath.Dir(input)
	}

	crateDir, ok := findUp(start, manifestFile)
	if !ok {
		log.Warnf("no %s found above %s", manifestFile, start)
		crateDir = start
	}
	manifestPath := filepath.Join(crateDir, manifestFile)
	log.Debugf("using manifest %s", manifestPath)

	lockPath := opts.Lockfile
	if lockPath == "" {
		if dir, ok := findUp(crateDir, lockFile); ok {
			lockPath = filepath.Join(dir, lockFile)
		}
	}

	metadata, err := loadMetadata(ctx, manifestPath, lockPath, opts, log)
	if err != nil {
		return nil, &LocationError{Path: manifestPath, Err: err}
	}

	if opts.Lockfile == "" && metadata.WorkspaceRoot != "" {
		lockPath = filepath.Join(metadata.WorkspaceRoot, lockFile)
	}
	var lock *Lock
	if lockPath != "" {
		lock, err = LoadLock(lockPath)
		switch {
		case err == nil:
		case opts.Lockfile == "" && errors.Is(err, fs.ErrNotExist):
			log.Debugf("no lock file at %s", lockPath)
		default:
			log.Warnf("couldn't load lock file %s: %v", lockPath, err)
		}
	}

	name := opts.Crate
	if name == "" {
		name, err = inferCrateName(manifestPath, metadata)
		if err != nil {
			return nil, &LocationError{Path: manifestPath, Err: err}
		}
	}
	binding, err := selectPackage(metadata, lock, name)
	if err != nil {
		return nil, &LocationError{Path: manifestPath, Err: err}
	}
	log.Infof("binding crate is %s", module.Version{Name: binding.Name, Version: binding.Version})
	if lib, ok := binding.LibTarget(); ok {
		log.Debugf("library target %s (%s)", lib.Name, lib.SrcPath)
	} else {
		log.Warnf("crate %s has no library target", binding.Name)
	}

	return &Cargo{
		Metadata: metadata,
		Lock:     lock,
		input:    input,
		binding:  binding,
		log:      log,
	}, nil
}

func loadMetadata(ctx context.Context, manifestPath, lockPath string, opts Options, log logging.Logger) (*Metadata, error) {
	if opts.MetadataFile != "" {
		log.Debugf("reading metadata from %s", opts.MetadataFile)
		return ReadMetadata(opts.MetadataFile)
	}

	var key string
	if opts.Cache != nil {
		key = opts.Cache.key(manifestPath)
		if opts.Clean {
			if err := opts.Cache.remove(key); err != nil {
				log.Warnf("couldn't clean cached metadata: %v", err)
			}
		} else if data, ok := opts.Cache.get(key); ok {
			if m, err := ParseMetadata(data); err == nil {
				log.Debugf("using cached metadata for %s", manifestPath)
				return m, nil
			}
		}
	}

	runner := opts.Runner
	if runner == nil {
		runner = NewRunner()
	}
	data, err := runner.Metadata(ctx, manifestPath)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetadata(data)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if err := opts.Cache.set(key, data, metadataInputs(manifestPath, lockPath, m)); err != nil {
			log.Warnf("couldn't cache metadata: %v", err)
		}
	}
	return m, nil
}

// inferCrateName returns the package declared by manifestPath, falling
// back to the resolve root and then to a sole workspace member.
func inferCrateName(manifestPath string, m *Metadata) (string, error) {
	manifest, err := loadManifest(manifestPath)
	switch {
	case err == nil:
		if manifest.Package != nil && manifest.Package.Name != "" {
			return manifest.Package.Name, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return "", err
	}
	if m.Resolve != nil && m.Resolve.Root != nil {
		if p := m.packageByID(*m.Resolve.Root); p != nil {
			return p.Name, nil
		}
	}
	if len(m.WorkspaceMembers) == 1 {
		if p := m.packageByID(m.WorkspaceMembers[0]); p != nil {
			return p.Name, nil
		}
	}
	return "", errors.New("cannot infer the binding crate, name it explicitly")
}

// selectPackage picks the package called name. Workspace members win over
// dependencies of the same name, then the version pinned by lock.
func selectPackage(m *Metadata, lock *Lock, name string) (*Package, error) {
	var candidates []*Package
	for i := range m.Packages {
		if m.Packages[i].Name == name {
			candidates = append(candidates, &m.Packages[i])
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("crate %q not found in metadata", name)
	case 1:
		return candidates[0], nil
	}
	for _, p := range candidates {
		if m.isMember(p.ID) {
			return p, nil
		}
	}
	if lock != nil {
		for _, v := range lock.Versions(name) {
			for _, p := range candidates {
				if p.Version == v {
					return p, nil
				}
			}
		}
	}
	return candidates[0], nil
}

// findUp returns the nearest directory, starting at dir and walking up,
// that contains file.
func findUp(dir, file string) (string, bool) {
	for {
		if fi, err := os.Stat(filepath.Join(dir, file)); err == nil && !fi.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// BindingCrate returns the package bindings are generated for.
func (c *Cargo) BindingCrate() *Package {
	return c.binding
}

// CrateDir returns the directory of the binding crate's manifest.
func (c *Cargo) CrateDir() (string, bool) {
	if c.binding.ManifestPath == "" {
		return "", false
	}
	return filepath.Dir(c.binding.ManifestPath), true
}

// RootDir returns the directory configuration is loaded from: the binding
// crate directory, or the input path when the crate has no known location.
func (c *Cargo) RootDir() string {
	if dir, ok := c.CrateDir(); ok {
		return dir
	}
	c.log.Warnf("location of crate %s is unknown, using %s", c.binding.Name, c.input)
	return c.input
}

// Identity returns the name, parsed version and root directory of the
// binding crate. A version that is not major.minor.patch is a
// *LocationError.
func (c *Cargo) Identity() (module.Identity, error) {
	v, err := module.ParseSemver(c.binding.Version)
	if err != nil {
		return module.Identity{}, &LocationError{
			Path: c.binding.ManifestPath,
			Err:  fmt.Errorf("failed to parse crate version of %s: %w", c.binding.Name, err),
		}
	}
	return module.Identity{
		Name:    c.binding.Name,
		Version: v,
		Dir:     c.RootDir(),
	}, nil
}
