package bbc

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithSettings replaces the forum feature switches.
func WithSettings(s Settings) Option {
	return func(r *Renderer) {
		r.site.Settings = s
	}
}

// WithStrings sets the localized labels. Empty fields keep the English
// default.
func WithStrings(s Strings) Option {
	return func(r *Renderer) {
		r.site.Strings = s.Merge(DefaultStrings())
	}
}

// WithSite sets the URLs used in generated links and images. Empty values
// keep the current ones.
func WithSite(scriptURL, smileysURL, imagesURL string) Option {
	return func(r *Renderer) {
		if scriptURL != "" {
			r.site.ScriptURL = scriptURL
		}
		if smileysURL != "" {
			r.site.SmileysURL = smileysURL
		}
		if imagesURL != "" {
			r.site.ImagesURL = imagesURL
		}
	}
}

// WithSmileySource reads smiley sets from src instead of the asset loader.
func WithSmileySource(src SmileySource) Option {
	return func(r *Renderer) {
		r.smileySource = src
	}
}

// WithCache caches loaded smiley sets in c.
func WithCache(c Cache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithCacheTTL sets how long a smiley set stays cached.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithCacheTTL(d time.Duration) Option {
	if d <= 0 {
		panic("bbc: WithCacheTTL duration must be positive")
	}
	return func(r *Renderer) {
		r.cacheTTL = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithExtension registers plugin tags and hooks for every render.
func WithExtension(ext Extension) Option {
	return func(r *Renderer) {
		r.extensions = append(r.extensions, ext)
	}
}

// WithHighlighting selects the chroma style for [code=lang]. An empty style
// turns highlighting off.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.highlightStyle = style
	}
}

// WithSanitize runs the rendered HTML through an allow-list sanitizer.
func WithSanitize(enabled bool) Option {
	return func(r *Renderer) {
		r.sanitize = enabled
	}
}

// WithClock sets the time source used for render timing and dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.site.Now = now
		}
	}
}

// WithAssetPath loads styles and smiley sets from dir, falling back to the
// embedded defaults.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(r *Renderer) {
		r.publicAssetLoader = l
	}
}

// WithMaxMessageSize bounds Input.Message in bytes.
// Panics if n <= 0 (programmer error).
func WithMaxMessageSize(n int) Option {
	if n <= 0 {
		panic("bbc: WithMaxMessageSize must be positive")
	}
	return func(r *Renderer) {
		r.maxMessageSize = n
	}
}
