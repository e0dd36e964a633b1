package assets

import "errors"

// AssetResolver layers a site's asset directory over the embedded defaults.
// A lookup moves to the next layer only when the current one reports the
// asset missing; invalid names and read errors stop it.
type AssetResolver struct {
	layers []AssetLoader
}

// NewAssetResolver returns a resolver over dir and the embedded assets, or
// over the embedded assets alone when dir is empty.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		site, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, site)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// LoadStyle returns the first layer's stylesheet called name.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return firstFound(r.layers, ErrStyleNotFound, func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadSmileySet returns the first layer's smiley set called name.
func (r *AssetResolver) LoadSmileySet(name string) ([]byte, error) {
	return firstFound(r.layers, ErrSmileySetNotFound, func(l AssetLoader) ([]byte, error) {
		return l.LoadSmileySet(name)
	})
}

func firstFound[T any](layers []AssetLoader, missing error, load func(AssetLoader) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for _, l := range layers {
		var v T
		v, err = load(l)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, missing) {
			return zero, err
		}
	}
	return zero, err
}

var _ AssetLoader = (*AssetResolver)(nil)
