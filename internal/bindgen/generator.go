// Package bindgen turns a located crate and generator settings into a C
// header with GObject conventions.
//
// The analysis of the crate's source is not done here: the declarations
// of the exported API come from a Surface. Without one the header carries
// the prologue, includes and preamble only.
package bindgen

import (
	"errors"
	"strings"

	"github.com/goplus/gbindgen/internal/cargo"
)

// Generator produces bindings for a crate.
type Generator interface {
	Generate(crate *cargo.Cargo, gobject bool, cfg Config) (*Bindings, error)
}

// Surface supplies the C declarations of a crate's exported API. Each
// declaration may span several lines and is indented with tabs.
type Surface interface {
	Declarations(crate *cargo.Cargo) ([]string, error)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(crate *cargo.Cargo) ([]string, error)

func (f SurfaceFunc) Declarations(crate *cargo.Cargo) ([]string, error) {
	return f(crate)
}

var stdIncludes = []string{"stdarg.h", "stdbool.h", "stdint.h", "stdlib.h"}

type headerGenerator struct {
	surface Surface
}

// NewGenerator returns the built-in header generator. surface may be nil.
func NewGenerator(surface Surface) Generator {
	return &headerGenerator{surface: surface}
}

func (g *headerGenerator) Generate(crate *cargo.Cargo, gobject bool, cfg Config) (*Bindings, error) {
	var decls []string
	if g.surface != nil {
		var err error
		if decls, err = g.surface.Declarations(crate); err != nil {
			return nil, err
		}
	}
	tabWidth := cfg.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	var sb strings.Builder
	if cfg.Header != "" {
		sb.WriteString(cfg.Header)
		sb.WriteString("\n\n")
	}

	includes := append([]string(nil), stdIncludes...)
	if gobject {
		includes = append(includes, "glib-object.h")
	}
	includes = append(includes, cfg.SysIncludes...)
	for _, inc := range includes {
		sb.WriteString("#include <" + inc + ">\n")
	}

	if cfg.AfterIncludes != "" {
		sb.WriteString(cfg.AfterIncludes)
		if !strings.HasSuffix(cfg.AfterIncludes, "\n") {
			sb.WriteByte('\n')
		}
	}

	if gobject {
		sb.WriteString("\nG_BEGIN_DECLS\n")
	}
	for _, decl := range decls {
		sb.WriteByte('\n')
		writeIndented(&sb, decl, tabWidth)
	}
	if gobject {
		sb.WriteString("\nG_END_DECLS\n")
	}
	return NewBindings([]byte(sb.String())), nil
}

// writeIndented writes decl with leading tabs expanded to tabWidth spaces.
func writeIndented(sb *strings.Builder, decl string, tabWidth int) {
	for _, line := range strings.Split(strings.TrimRight(decl, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, "\t")
		sb.WriteString(strings.Repeat(" ", (len(line)-len(trimmed))*tabWidth))
		sb.WriteString(trimmed)
		sb.WriteByte('\n')
	}
}

// Builder configures and runs a Generator.
type Builder struct {
	cfg     Config
	gobject bool
	crate   *cargo.Cargo
	gen     Generator
}

// NewBuilder returns a Builder using DefaultConfig and the built-in
// generator.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

func (b *Builder) WithGObject(gobject bool) *Builder {
	b.gobject = gobject
	return b
}

// WithHeader sets the text emitted at the top of the header.
func (b *Builder) WithHeader(header string) *Builder {
	b.cfg.Header = header
	return b
}

func (b *Builder) WithCrate(crate *cargo.Cargo) *Builder {
	b.crate = crate
	return b
}

// WithGenerator replaces the built-in generator.
func (b *Builder) WithGenerator(gen Generator) *Builder {
	b.gen = gen
	return b
}

// Generate runs the generator once.
func (b *Builder) Generate() (*Bindings, error) {
	if b.crate == nil {
		return nil, errors.New("bindgen: no crate to generate bindings for")
	}
	gen := b.gen
	if gen == nil {
		gen = NewGenerator(nil)
	}
	return gen.Generate(b.crate, b.gobject, b.cfg)
}
