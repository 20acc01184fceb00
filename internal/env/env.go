package env

import (
	"os"
	"path/filepath"
)

// CacheDirEnv overrides the root of the per-user cache.
const CacheDirEnv = "GBINDGEN_CACHE_DIR"

// WorkDir returns the per-user working directory of gbindgen.
func WorkDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir, nil
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".gbindgen"), nil
}

// MetadataDir returns the directory caching `cargo metadata` output,
// creating it if needed.
func MetadataDir() (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(workDir, "metadata")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Cargo returns the cargo executable, honouring $CARGO like cargo's own
// subcommands do.
func Cargo() string {
	if cargo := os.Getenv("CARGO"); cargo != "" {
		return cargo
	}
	return "cargo"
}
