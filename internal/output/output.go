// Package output persists generated bindings to standard output or a file.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/goplus/gbindgen/internal/bindgen"
	"github.com/goplus/gbindgen/internal/logging"
)

// WriteError reports a destination that could not be written.
type WriteError struct {
	Path string // "-" for the standard output
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write bindings to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Options contains options for Write.
type Options struct {
	// Path is the destination file. Empty selects Stdout.
	Path string
	// Verify reports drift when the file content changed.
	Verify bool
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
	// Logger defaults to logging.Discard.
	Logger logging.Logger
}

// Result describes a successful write.
type Result struct {
	// Changed is set when the file did not hold the generated content
	// before, including when it did not exist.
	Changed bool
	// Drift is set when Verify is on and the file changed. The file has
	// been written regardless.
	Drift bool
}

// Write writes b to the destination selected by opts.
func Write(b *bindgen.Bindings, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard
	}

	if opts.Path == "" {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if err := b.Write(stdout); err != nil {
			return Result{}, &WriteError{Path: "-", Err: err}
		}
		return Result{}, nil
	}

	changed, err := b.WriteToFile(opts.Path)
	if err != nil {
		return Result{}, &WriteError{Path: opts.Path, Err: err}
	}
	if changed {
		log.Infof("wrote %s", opts.Path)
	} else {
		log.Debugf("%s is up to date", opts.Path)
	}
	return Result{Changed: changed, Drift: opts.Verify && changed}, nil
}
