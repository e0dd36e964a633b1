// Package highlight renders [code=lang] bodies with chroma.
package highlight

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used by CSS when no style is named.
const DefaultStyle = "github"

// Sentinel errors.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrHighlight       = errors.New("highlighting failed")
)

// Chroma highlights code with CSS classes and no surrounding <pre>, so the
// output drops into the code tag's own <pre>.
type Chroma struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style

	mu     sync.Mutex
	lexers map[string]chroma.Lexer
}

// New returns a Chroma highlighter using style for inline fallbacks.
func New(style string) *Chroma {
	return &Chroma{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style:  lookupStyle(style),
		lexers: make(map[string]chroma.Lexer),
	}
}

// Highlight tokenises code as lang.
func (c *Chroma) Highlight(lang, code string) (string, error) {
	lexer := c.lexer(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	var sb strings.Builder
	if err := c.formatter.Format(&sb, c.style, it); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// lexer caches lookups; chroma's registry search is linear.
func (c *Chroma) lexer(lang string) chroma.Lexer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lexers[lang]; ok {
		return l
	}
	l := lexers.Get(lang)
	if l != nil {
		l = chroma.Coalesce(l)
	}
	c.lexers[lang] = l
	return l
}

// CSS returns the class stylesheet for style, for standalone pages.
func CSS(style string) (string, error) {
	var sb strings.Builder
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(&sb, lookupStyle(style)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return sb.String(), nil
}

func lookupStyle(name string) *chroma.Style {
	if name == "" {
		name = DefaultStyle
	}
	return styles.Get(name)
}
