package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileBackend keeps each key as <dir>/<key>.json.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

func NewFileBackend(fsys afero.Fs, dir string) (*FileBackend, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileBackend{fs: fsys, dir: dir}, nil
}

// NewMemoryBackend is a FileBackend over an in-memory filesystem.
func NewMemoryBackend() *FileBackend {
	b, _ := NewFileBackend(afero.NewMemMapFs(), "/ledger")
	return b
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *FileBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(b.fs, b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Write replaces the file through a rename so readers never see a partial document.
func (b *FileBackend) Write(_ context.Context, key string, data []byte) error {
	tmp, err := afero.TempFile(b.fs, b.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = b.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = b.fs.Remove(name)
		return err
	}
	if err := b.fs.Rename(name, b.path(key)); err != nil {
		_ = b.fs.Remove(name)
		return err
	}
	return nil
}
