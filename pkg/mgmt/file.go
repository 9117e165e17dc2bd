package mgmt

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// File is a readable file handed to an upload.
type File interface {
	// Path is the location the file is read from.
	Path() string
	// Name is the base name sent as the part filename.
	Name() string
	// ReadAll returns the complete contents.
	ReadAll() ([]byte, error)
}

type fsFile struct {
	fs   afero.Fs
	path string
}

// LocalFile reads path from the operating system's filesystem.
func LocalFile(path string) File {
	return FileFromFs(afero.NewOsFs(), path)
}

// FileFromFs reads path from fsys.
func FileFromFs(fsys afero.Fs, path string) File {
	return &fsFile{fs: fsys, path: path}
}

func (f *fsFile) Path() string {
	return f.path
}

func (f *fsFile) Name() string {
	return filepath.Base(f.path)
}

func (f *fsFile) ReadAll() ([]byte, error) {
	content, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	return content, nil
}
