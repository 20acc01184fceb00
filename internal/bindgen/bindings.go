package bindgen

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Bindings is a generated header.
type Bindings struct {
	data []byte
}

// NewBindings wraps generated content.
func NewBindings(data []byte) *Bindings {
	return &Bindings{data: data}
}

// Bytes returns the generated content.
func (b *Bindings) Bytes() []byte {
	return b.data
}

// Equal reports whether old holds exactly the generated content.
func (b *Bindings) Equal(old []byte) bool {
	return bytes.Equal(b.data, old)
}

// Write writes the bindings to w.
func (b *Bindings) Write(w io.Writer) error {
	_, err := w.Write(b.data)
	return err
}

// WriteToFile writes the bindings to path and reports whether the file
// content changed. A missing file counts as changed; parent directories
// are created. An unchanged file is left untouched.
func (b *Bindings) WriteToFile(path string) (changed bool, err error) {
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if b.Equal(old) {
			return false, nil
		}
	case errors.Is(err, fs.ErrNotExist):
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return false, err
			}
		}
	default:
		return false, err
	}

	f, err := os.Create(path)
	if err != nil {
		return false, err
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}
	return true, nil
}
