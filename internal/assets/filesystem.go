package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemLoader reads styles and smiley sets from a site's asset
// directory:
//
//	{dir}/styles/{name}.css
//	{dir}/smileys/{name}.yaml
//
// Reads go through an os.Root, so a symlink pointing out of dir is refused.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader checks that dir is a readable directory.
// Returns ErrInvalidBasePath otherwise.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open directory: %v", ErrInvalidBasePath, err)
	}
	_ = root.Close()

	return &FilesystemLoader{dir: abs}, nil
}

// LoadStyle returns styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	b, err := f.read("styles", name+".css", name, ErrStyleNotFound)
	return string(b), err
}

// LoadSmileySet returns the raw YAML of smileys/{name}.yaml.
func (f *FilesystemLoader) LoadSmileySet(name string) ([]byte, error) {
	return f.read("smileys", name+".yaml", name, ErrSmileySetNotFound)
}

func (f *FilesystemLoader) read(kind, file, name string, notFound error) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	rel := kind + "/" + file

	root, err := os.OpenRoot(f.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()

	b, err := root.ReadFile(rel)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", notFound, name)
	}
	// The root refused a file the plain filesystem can reach: it lives outside dir.
	if _, statErr := os.Stat(filepath.Join(f.dir, kind, file)); statErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathTraversal, rel)
	}
	return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
}

var _ AssetLoader = (*FilesystemLoader)(nil)
