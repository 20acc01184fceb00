// Package config loads the package-local gbindgen.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the crate root.
const FileName = "gbindgen.toml"

// Config is the user configuration of a binding crate.
type Config struct {
	// SysIncludes lists additional system includes to put at the beginning
	// of the generated header.
	SysIncludes []string `toml:"sys_includes"`
	// Namespace is the package namespace / prefix.
	Namespace *string `toml:"namespace"`
}

// NamespaceOr returns the namespace, or def when it is not set.
func (c *Config) NamespaceOr(def string) string {
	if c.Namespace == nil {
		return def
	}
	return *c.Namespace
}

// ConfigError reports a configuration file that could not be read or
// does not match the schema.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and parses the configuration file at path. Keys outside the
// schema are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("couldn't open config file: %w", err)}
	}
	return Parse(path, data)
}

// Parse parses configuration data read from path.
func Parse(path string, data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("couldn't parse config file: %w", err)}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("unknown field(s): %s", strings.Join(keys, ", "))}
	}
	return &c, nil
}

// FromRootOrDefault loads FileName from root. A missing file yields the
// default configuration.
func FromRootOrDefault(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return Load(path)
}
