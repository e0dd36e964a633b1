package bbc

import (
	"errors"

	"github.com/elkarte/go-bbc/internal/assets"
)

// Asset name constants for built-in styles and smiley sets.
const (
	// DefaultStyle is the name of the built-in stylesheet.
	DefaultStyle = "default"

	// DefaultSmileySet is the name of the built-in smiley set.
	DefaultSmileySet = "default"
)

// AssetLoader defines the contract for loading stylesheets and smiley set
// definitions. Implementations may load from filesystem, embedded assets,
// a database, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadSmileySet loads a YAML smiley set definition by name.
	// Returns ErrSmileySetNotFound if the set doesn't exist.
	LoadSmileySet(name string) ([]byte, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.css for stylesheets
//   - smileys/{name}.yaml for smiley sets
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{loader: resolver}, nil
}

// assetLoaderAdapter maps internal asset errors to the public sentinels.
type assetLoaderAdapter struct {
	loader assets.AssetLoader
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.loader.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadSmileySet(name string) ([]byte, error) {
	content, err := a.loader.LoadSmileySet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return content, nil
}

// publicToInternalAdapter lets a public AssetLoader feed internal packages.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	css, err := a.pub.LoadStyle(name)
	if errors.Is(err, ErrStyleNotFound) {
		return "", assets.ErrStyleNotFound
	}
	return css, err
}

func (a *publicToInternalAdapter) LoadSmileySet(name string) ([]byte, error) {
	data, err := a.pub.LoadSmileySet(name)
	if errors.Is(err, ErrSmileySetNotFound) {
		return nil, assets.ErrSmileySetNotFound
	}
	return data, err
}

// convertAssetError maps internal asset errors to public sentinel errors.
func convertAssetError(err error) error {
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return errors.Join(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrSmileySetNotFound):
		return errors.Join(ErrSmileySetNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrInvalidAssetName),
		errors.Is(err, assets.ErrPathTraversal):
		return errors.Join(ErrInvalidAssetPath, err)
	default:
		return err
	}
}
