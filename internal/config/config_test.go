package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(s string) *string { return &s }

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    *Config
		wantErr string
	}{
		{
			name: "all fields",
			file: "full.toml",
			want: &Config{
				SysIncludes: []string{"gio/gio.h", "gtk/gtk.h"},
				Namespace:   ptr("MyLib"),
			},
		},
		{
			name:    "unknown field",
			file:    "unknown_field.toml",
			wantErr: "include_guard",
		},
		{
			name:    "syntax error",
			file:    "bad_syntax.toml",
			wantErr: "couldn't parse config file",
		},
		{
			name:    "wrong type",
			file:    "wrong_type.toml",
			wantErr: "couldn't parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join("testdata", tt.file)
			got, err := Load(path)
			if tt.wantErr != "" {
				if got != nil {
					t.Errorf("Load() returned partial config %+v alongside error", got)
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("Load() error = %v, want *ConfigError", err)
				}
				if cfgErr.Path != path {
					t.Errorf("ConfigError.Path = %q, want %q", cfgErr.Path, path)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromRootOrDefault_Missing(t *testing.T) {
	got, err := FromRootOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("FromRootOrDefault() error = %v", err)
	}
	if diff := cmp.Diff(&Config{}, got); diff != "" {
		t.Errorf("FromRootOrDefault() mismatch (-want +got):\n%s", diff)
	}
	if got.NamespaceOr("none") != "none" {
		t.Errorf("NamespaceOr() = %q, want %q", got.NamespaceOr("none"), "none")
	}
}

func TestFromRootOrDefault_Present(t *testing.T) {
	root := t.TempDir()
	content := "sys_includes = []\nnamespace = \"Gtk\"\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FromRootOrDefault(root)
	if err != nil {
		t.Fatalf("FromRootOrDefault() error = %v", err)
	}
	if got.NamespaceOr("") != "Gtk" {
		t.Errorf("Namespace = %q, want %q", got.NamespaceOr(""), "Gtk")
	}
	if len(got.SysIncludes) != 0 {
		t.Errorf("SysIncludes = %v, want empty", got.SysIncludes)
	}
}

func TestFromRootOrDefault_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte("namespace = \"A\"\n"), 0000); err != nil {
		t.Fatal(err)
	}

	_, err := FromRootOrDefault(root)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("FromRootOrDefault() error = %v, want *ConfigError", err)
	}
	if cfgErr.Path != path {
		t.Errorf("ConfigError.Path = %q, want %q", cfgErr.Path, path)
	}
}
