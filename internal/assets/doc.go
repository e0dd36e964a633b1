// Package assets provides the stylesheet and smiley set definitions used
// when rendering forum messages.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default set)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the renderer and the CLI. It asks the
// site directory first and the embedded defaults second, moving on only when
// an asset is missing, so a site can override one smiley set and keep the rest.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css    # stylesheet for standalone pages
//	└── smileys/
//	    └── {name}.yaml   # smiley set: code, filename, description
//
// # Security
//
// Asset names may not contain separators or dots. FilesystemLoader reads
// through an os.Root, so symlinks cannot reach outside basePath.
package assets
