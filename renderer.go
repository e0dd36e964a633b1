package bbc

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/elkarte/go-bbc/internal/assets"
	"github.com/elkarte/go-bbc/internal/cache"
	"github.com/elkarte/go-bbc/internal/codes"
	"github.com/elkarte/go-bbc/internal/highlight"
	"github.com/elkarte/go-bbc/internal/markdown"
	"github.com/elkarte/go-bbc/internal/parser"
	"github.com/elkarte/go-bbc/internal/site"
	"github.com/elkarte/go-bbc/internal/smiley"
)

// Compile-time interface implementation checks.
var (
	_ codes.Highlighter  = (*highlight.Chroma)(nil)
	_ parser.Smileys     = (*smiley.Parser)(nil)
	_ assets.AssetLoader = (*publicToInternalAdapter)(nil)
	_ AssetLoader        = (*assetLoaderAdapter)(nil)
	_ Cache              = cache.Nop{}
)

// privateMarkers are the Private Use Area runes the pipeline uses as
// placeholders. They are stripped from input so a message cannot forge them.
var privateMarkers = strings.NewReplacer("\uE000", "", "\uE001", "", "\uE002", "", "\uE003", "")

// Renderer turns forum messages into HTML fragments. Create with
// NewRenderer. A Renderer is safe for concurrent use: every Render call
// builds its own tag registry.
type Renderer struct {
	site           site.Context
	logger         *zap.Logger
	extensions     []Extension
	highlightStyle string
	sanitize       bool
	maxMessageSize int

	assetPath         string
	publicAssetLoader AssetLoader
	assetLoader       assets.AssetLoader

	smileySource SmileySource
	cache        Cache
	cacheTTL     time.Duration
	smileys      *smiley.Loader

	markdown    *markdown.Parser
	highlighter codes.Highlighter
	policy      *bluemonday.Policy
}

// NewRenderer creates a Renderer with default settings and English strings.
// Use options to customize behavior (e.g., WithSettings, WithSmileySource).
// Returns ErrInvalidAssetPath if WithAssetPath names an unusable directory.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		site:           site.NewContext(),
		logger:         zap.NewNop(),
		highlightStyle: highlight.DefaultStyle,
		maxMessageSize: DefaultMaxMessageSize,
		cacheTTL:       smiley.DefaultTTL,
		assetLoader:    assets.NewEmbeddedLoader(),
		markdown:       markdown.New(),
	}

	for _, opt := range opts {
		opt(r)
	}

	// Handle WithAssetPath: resolve to internal loader
	if r.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.assetPath)
		if err != nil {
			return nil, convertAssetError(err)
		}
		r.assetLoader = resolver
	}

	// Handle WithAssetLoader (public interface): wrap to internal interface
	if r.publicAssetLoader != nil {
		r.assetLoader = &publicToInternalAdapter{pub: r.publicAssetLoader}
	}

	if r.smileySource == nil {
		r.smileySource = smiley.NewAssetSource(r.assetLoader)
	}
	if r.cache == nil {
		r.cache = cache.NewMemory()
	}
	r.smileys = smiley.NewLoader(r.smileySource,
		smiley.WithCache(r.cache),
		smiley.WithTTL(r.cacheTTL),
		smiley.WithLoaderLogger(r.logger),
		smiley.WithParserOptions(
			smiley.WithBaseURL(r.site.SmileysURL),
			smiley.WithEmoji(r.site.Settings.EnableEmoji),
			smiley.WithLogger(r.logger),
		),
	)

	if r.highlightStyle != "" && r.site.Settings.HighlightCode {
		r.highlighter = highlight.New(r.highlightStyle)
	}
	if r.sanitize {
		r.policy = newPolicy()
	}

	return r, nil
}

// Render runs the full pipeline on one message.
// The context is checked between stages.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("render panicked", zap.Any("panic", rec))
			err = fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	if err := r.validateInput(input); err != nil {
		return nil, err
	}
	start := r.site.Now()
	res := &Result{}

	message := site.Escape(privateMarkers.Replace(input.Message))

	// Markdown runs on escaped text and produces BBCode for the interpreter.
	if r.site.Settings.EnableMarkdown && !input.DisableMarkdown {
		message = r.applyMarkdown(message, res)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	registry := r.registry(input)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var popts []parser.Option
	popts = append(popts, parser.WithLogger(r.logger))
	if r.site.Settings.EnableSmileys && !input.DisableSmileys {
		sp, err := r.smileyParser(ctx, input.SmileySet)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("smileys unavailable", zap.Error(err))
			res.Warnings = append(res.Warnings, "smileys: "+err.Error())
		} else {
			popts = append(popts, parser.WithSmileys(sp))
		}
	}

	html := parser.New(registry.ForParsing(), r.site, popts...).Parse(message)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.policy != nil {
		html = r.policy.Sanitize(html)
	}
	res.HTML = html

	r.logger.Debug("message rendered",
		zap.Int("bytes_in", len(input.Message)),
		zap.Int("bytes_out", len(html)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", r.site.Now().Sub(start)),
	)
	return res, nil
}

// Stylesheet returns the default message stylesheet followed by the
// highlighter's class rules when highlighting is on.
func (r *Renderer) Stylesheet() (string, error) {
	css, err := r.assetLoader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return "", convertAssetError(err)
	}
	if r.highlighter == nil {
		return css, nil
	}
	code, err := highlight.CSS(r.highlightStyle)
	if err != nil {
		return "", fmt.Errorf("building highlight stylesheet: %w", err)
	}
	return css + "\n" + code, nil
}

// applyMarkdown runs the code pass then the inline pass. A pass that times
// out leaves its input unchanged and adds a warning.
func (r *Renderer) applyMarkdown(message string, res *Result) string {
	out, err := r.markdown.ParseCode(message)
	if err != nil {
		r.logger.Warn("markdown code pass degraded", zap.Error(err))
		res.Warnings = append(res.Warnings, "markdown: "+err.Error())
	}
	message = out

	out, err = r.markdown.Parse(message)
	if err != nil {
		r.logger.Warn("markdown pass degraded", zap.Error(err))
		res.Warnings = append(res.Warnings, "markdown: "+err.Error())
	}
	return out
}

// registry builds the request-scoped tag table.
func (r *Renderer) registry(input Input) *codes.Registry {
	env := codes.Env{Site: r.site}
	if r.highlighter != nil {
		env.Highlighter = r.highlighter
	}
	reg := codes.New(env)
	for _, ext := range r.extensions {
		ext.apply(reg)
	}
	if input.ForPrinting {
		reg.SetForPrinting()
	}
	if len(input.ParsedTags) > 0 {
		reg.SetParsedTags(input.ParsedTags)
	}
	return reg
}

func (r *Renderer) smileyParser(ctx context.Context, set string) (*smiley.Parser, error) {
	if set == "" {
		set = r.site.Settings.SmileySet
	}
	if set == "" {
		set = DefaultSmileySet
	}
	p, err := r.smileys.Parser(ctx, set)
	if err != nil {
		return nil, convertSmileyError(err)
	}
	return p, nil
}

// validateInput checks the message before any stage runs.
func (r *Renderer) validateInput(input Input) error {
	if strings.TrimSpace(input.Message) == "" {
		return ErrEmptyMessage
	}
	if len(input.Message) > r.maxMessageSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLarge, len(input.Message), r.maxMessageSize)
	}
	for _, name := range input.ParsedTags {
		if name == "" || len(name) > 16 {
			return fmt.Errorf("%w: parsed tag %q", ErrInvalidInput, name)
		}
	}
	return nil
}

var (
	postAnchorPattern = regexp.MustCompile(`^post_[a-z][-a-z0-9_]*$`)
	relPattern        = regexp.MustCompile(`^[a-z ]+$`)
	targetPattern     = regexp.MustCompile(`^_blank$`)
)

// newPolicy extends the user generated content policy with the markup the
// built-in tags emit.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("class").Globally()
	p.AllowStyles("color", "font-family", "font-size", "text-align",
		"list-style-type", "width", "height", "max-width", "max-height").Globally()
	p.AllowElements("details", "summary", "del", "s", "u", "sub", "sup", "abbr")
	p.AllowAttrs("title").OnElements("abbr", "sup", "img")
	p.AllowAttrs("id").Matching(postAnchorPattern).OnElements("span")
	p.AllowAttrs("rel").Matching(relPattern).OnElements("a")
	p.AllowAttrs("target").Matching(targetPattern).OnElements("a")
	return p
}
