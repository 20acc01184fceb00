package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goplus/gbindgen/internal/bindgen"
	"github.com/goplus/gbindgen/internal/cargo"
	"github.com/goplus/gbindgen/internal/env"
	"github.com/goplus/gbindgen/internal/gen"
	"github.com/goplus/gbindgen/internal/logging"
	"github.com/goplus/gbindgen/internal/output"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitChanged = 2 // --verify found the bindings file out of date
)

// exitError carries an exit code for an outcome already reported to the
// user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

type rootFlags struct {
	output   string
	verify   bool
	verbose  int
	quiet    bool
	lockfile string
	crate    string
	metadata string
	clean    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "gbindgen [INPUT]",
		Short: "Generate GObject C bindings for a glib/gtk-rs library",
		Long: `gbindgen generates a GObject C header for a Rust library.

INPUT is a crate directory or a file inside it; in general the folder where
the Cargo.toml of the library resides. It defaults to the current directory.
Settings are read from gbindgen.toml next to the crate's Cargo.toml.`,
		Version:       bindgen.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "The file to output the bindings to")
	f.BoolVar(&flags.verify, "verify", false, "Generate bindings and compare them to the existing bindings file, exit with status 2 if they differ")
	f.CountVarP(&flags.verbose, "verbose", "v", "Enable verbose logging (repeat for more)")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Report errors only (overrides verbosity options)")
	f.StringVar(&flags.lockfile, "lockfile", "", "Use a specific Cargo.lock instead of the workspace one")
	f.StringVar(&flags.crate, "crate", "", "The crate to generate bindings for, when INPUT is a workspace")
	f.StringVar(&flags.metadata, "metadata", "", "Read cargo metadata JSON from this file instead of running cargo")
	f.BoolVar(&flags.clean, "clean", false, "Ignore cached cargo metadata")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, flags *rootFlags) error {
	log := logging.New(cmd.ErrOrStderr(), logging.LevelFor(flags.quiet, flags.verbose))

	var input string
	if len(args) > 0 {
		input = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			log.Errorf("%v", err)
			return &exitError{code: ExitFailure, err: err}
		}
		input = wd
	}

	copts := cargo.Options{
		Lockfile:     flags.lockfile,
		Crate:        flags.crate,
		Clean:        flags.clean,
		MetadataFile: flags.metadata,
	}
	if flags.metadata == "" {
		if dir, err := env.MetadataDir(); err != nil {
			log.Warnf("metadata cache disabled: %v", err)
		} else {
			copts.Cache = cargo.NewMetadataCache(dir)
		}
	}

	bindings, err := gen.Generate(context.Background(), input, gen.Options{
		Cargo:  copts,
		Logger: log,
	})
	if err != nil {
		log.Errorf("%v", err)
		log.Errorf("Couldn't generate bindings for %s.", input)
		return &exitError{code: ExitFailure, err: err}
	}

	res, err := output.Write(bindings, output.Options{
		Path:   flags.output,
		Verify: flags.verify,
		Stdout: cmd.OutOrStdout(),
		Logger: log,
	})
	if err != nil {
		log.Errorf("%v", err)
		return &exitError{code: ExitFailure, err: err}
	}
	if res.Drift {
		log.Errorf("Bindings changed: %s", flags.output)
		return &exitError{code: ExitChanged}
	}
	return nil
}

// ExitCode maps the result of a run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	var e *exitError
	if err != nil && !errors.As(err, &e) {
		// Usage errors are not reported by runGenerate.
		fmt.Fprintln(stderr, "Error:", err)
	}
	return ExitCode(err)
}

// Execute runs gbindgen with the process arguments and returns the exit
// status. This is called by main.main().
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}
