// Package gen drives header generation: it locates the binding crate,
// loads its gbindgen.toml, composes the version macros and runs the
// generator once.
package gen

import (
	"context"
	"fmt"

	"github.com/goplus/gbindgen/internal/bindgen"
	"github.com/goplus/gbindgen/internal/cargo"
	"github.com/goplus/gbindgen/internal/config"
	"github.com/goplus/gbindgen/internal/logging"
	"github.com/goplus/gbindgen/internal/version"
	"github.com/goplus/gbindgen/mod/module"
)

// TabWidth is the indentation width of generated headers.
const TabWidth = 4

// GenerationError wraps an error returned by the generator.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generate bindings: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Options contains options for Generate.
type Options struct {
	// Cargo configures how the binding crate is located. Its Logger
	// defaults to Logger.
	Cargo cargo.Options
	// Generator defaults to the built-in header generator.
	Generator bindgen.Generator
	// Logger defaults to logging.Discard.
	Logger logging.Logger
}

// Header returns the comment opening a header generated for crate.
func Header(crate string) string {
	return fmt.Sprintf("/* GObject C binding from Rust %s project, generated with gbindgen: DO NOT EDIT. */", crate)
}

// Settings merges the crate identity and its configuration into generator
// settings. The header comment is set separately, see Header. A configuration without namespace yields an error wrapping
// version.ErrNamespaceMissing.
func Settings(id module.Identity, cfg *config.Config) (bindgen.Config, error) {
	macros, err := version.Macros(cfg.NamespaceOr(""), id.Version)
	if err != nil {
		return bindgen.Config{}, fmt.Errorf("crate %s: %w", id.Name, err)
	}
	settings := bindgen.DefaultConfig()
	settings.TabWidth = TabWidth
	settings.SysIncludes = append([]string(nil), cfg.SysIncludes...)
	settings.AfterIncludes = macros
	return settings, nil
}

// Generate produces the bindings of the crate at input, a crate directory
// or a file inside one.
func Generate(ctx context.Context, input string, opts Options) (*bindgen.Bindings, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard
	}
	copts := opts.Cargo
	if copts.Logger == nil {
		copts.Logger = log
	}

	crate, err := cargo.Load(ctx, input, copts)
	if err != nil {
		return nil, err
	}
	id, err := crate.Identity()
	if err != nil {
		return nil, err
	}
	log.Debugf("crate %s %s in %s", id.Name, id.Version, id.Dir)

	cfg, err := config.FromRootOrDefault(id.Dir)
	if err != nil {
		return nil, err
	}
	settings, err := Settings(id, cfg)
	if err != nil {
		return nil, err
	}

	bindings, err := bindgen.NewBuilder().
		WithConfig(settings).
		WithHeader(Header(id.Name)).
		WithGObject(true).
		WithCrate(crate).
		WithGenerator(opts.Generator).
		Generate()
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	log.Infof("generated bindings for %s", id.Name)
	return bindings, nil
}
