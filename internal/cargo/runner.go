package cargo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goplus/gbindgen/internal/env"
)

// Runner produces `cargo metadata` output for a manifest.
type Runner interface {
	// Metadata returns the JSON printed by
	// `cargo metadata --format-version 1` for manifestPath.
	Metadata(ctx context.Context, manifestPath string) ([]byte, error)
}

// cargoRunner implements Runner by executing cargo.
type cargoRunner struct {
	cargo string
}

// RunnerOption configures cargoRunner.
type RunnerOption func(*cargoRunner)

// WithCargoPath sets a custom cargo executable path.
func WithCargoPath(path string) RunnerOption {
	return func(r *cargoRunner) {
		r.cargo = path
	}
}

// NewRunner creates a Runner executing cargo, by default the one named by
// $CARGO or found in PATH.
func NewRunner(opts ...RunnerOption) Runner {
	r := &cargoRunner{cargo: env.Cargo()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *cargoRunner) Metadata(ctx context.Context, manifestPath string) ([]byte, error) {
	out, err := r.output(ctx, "metadata", "--format-version", "1", "--manifest-path", manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cargo metadata: %w", err)
	}
	return out, nil
}

func (r *cargoRunner) output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.cargo, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
