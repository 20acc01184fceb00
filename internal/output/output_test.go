package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goplus/gbindgen/internal/bindgen"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWrite_Stream(t *testing.T) {
	var buf bytes.Buffer
	res, err := Write(bindgen.NewBindings([]byte("int x;\n")), Options{Stdout: &buf, Verify: true})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if diff := cmp.Diff(Result{}, res); diff != "" {
		t.Errorf("Write() mismatch (-want +got):\n%s", diff)
	}
	if buf.String() != "int x;\n" {
		t.Errorf("stdout = %q, want %q", buf.String(), "int x;\n")
	}
}

func TestWrite_StreamError(t *testing.T) {
	_, err := Write(bindgen.NewBindings([]byte("x")), Options{Stdout: failingWriter{}})
	var wErr *WriteError
	if !errors.As(err, &wErr) {
		t.Fatalf("Write() error = %v, want *WriteError", err)
	}
}

func TestWrite_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mylib.h")
	b := bindgen.NewBindings([]byte("int x;\n"))

	tests := []struct {
		name   string
		verify bool
		want   Result
	}{
		{"new file with verify", true, Result{Changed: true, Drift: true}},
		{"same content with verify", true, Result{}},
		{"same content", false, Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Write(b, Options{Path: path, Verify: tt.verify})
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Write() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrite_DriftStillWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mylib.h")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Write(bindgen.NewBindings([]byte("new\n")), Options{Path: path, Verify: true})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !got.Drift {
		t.Error("Write() did not report drift")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new\n" {
		t.Errorf("file content = %q, want the new bindings", data)
	}
}

func TestWrite_FileError(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(bindgen.NewBindings([]byte("x")), Options{Path: dir})
	var wErr *WriteError
	if !errors.As(err, &wErr) {
		t.Fatalf("Write() error = %v, want *WriteError", err)
	}
	if wErr.Path != dir {
		t.Errorf("WriteError.Path = %q, want %q", wErr.Path, dir)
	}
}
