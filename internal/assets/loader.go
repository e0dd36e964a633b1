package assets

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "default"

// DefaultSmileySetName is the name of the built-in smiley set.
const DefaultSmileySetName = "default"

// AssetLoader defines the contract for loading stylesheets and smiley sets.
// Implementations may load from embedded assets, filesystem, database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadSmileySet loads the raw YAML of a smiley set (without .yaml extension).
	// Returns ErrSmileySetNotFound if the set doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadSmileySet(name string) ([]byte, error)
}
