package smiley

import (
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/yuin/goldmark-emoji/definition"
	"go.uber.org/zap"

	"github.com/elkarte/go-bbc/internal/site"
)

const matchTimeout = time.Second

// Boundaries shared by the smiley and emoji patterns: a code must follow the
// start of text, whitespace, a tag end or punctuation, must not run into a
// letter or digit, and must not sit inside a tag or a link's text.
const (
	leftBoundary  = `(?<=^|[\s>.,;:!?()\[\]*\\]|&nbsp;)`
	rightBoundary = `(?![\p{L}\p{N}])(?![^<>]*>)(?![^<]*</a>)`
)

var (
	emojiPattern = compileEmoji()
	emojis       = definition.Github()
)

func compileEmoji() *regexp2.Regexp {
	re := regexp2.MustCompile(`(?<=^|[\s>.,;!?()\[\]]):([a-z0-9_+\-]{1,40}):`+rightBoundary, 0)
	re.MatchTimeout = matchTimeout
	return re
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL sets the URL that holds smiley set directories.
func WithBaseURL(url string) Option {
	return func(p *Parser) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// WithEmoji turns :shortcode: conversion on or off.
func WithEmoji(enabled bool) Option {
	return func(p *Parser) {
		p.emoji = enabled
	}
}

// WithLogger sets the logger used for pattern timeouts.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// Parser substitutes one smiley set. It is immutable after NewParser and
// safe for concurrent use.
type Parser struct {
	set     string
	baseURL string
	emoji   bool
	logger  *zap.Logger

	pattern *regexp2.Regexp // nil when the set is empty
	byCode  map[string]Smiley
}

// NewParser compiles set into a single alternation, longest code first. Each
// code is matched both raw and HTML-escaped.
func NewParser(set Set, opts ...Option) (*Parser, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		set:     set.Name,
		baseURL: "smileys",
		logger:  zap.NewNop(),
		byCode:  make(map[string]Smiley, len(set.Smileys)*2),
	}
	if p.set == "" {
		p.set = "default"
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, sm := range set.Smileys {
		for _, form := range []string{sm.Code, site.Escape(sm.Code)} {
			if _, dup := p.byCode[form]; !dup {
				p.byCode[form] = sm
			}
		}
	}
	if len(p.byCode) == 0 {
		return p, nil
	}

	tokens := make([]string, 0, len(p.byCode))
	for code := range p.byCode {
		tokens = append(tokens, code)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	for i, tok := range tokens {
		tokens[i] = regexp2.Escape(tok)
	}

	re, err := regexp2.Compile(leftBoundary+`(?:`+strings.Join(tokens, "|")+`)`+rightBoundary, 0)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	p.pattern = re
	return p, nil
}

// Set returns the name of the compiled set.
func (p *Parser) Set() string { return p.set }

// Parse replaces smileys in text. The text is split on Marker: the first
// chunk also gets emoji conversion, later chunks only smileys. Chunks are
// joined back without the marker.
func (p *Parser) Parse(text string) string {
	if text == "" {
		return text
	}
	chunks := strings.Split(text, Marker)
	for i, chunk := range chunks {
		if i == 0 && p.emoji {
			chunk = p.replaceEmoji(chunk)
		}
		chunks[i] = p.replaceSmileys(chunk)
	}
	return strings.Join(chunks, "")
}

func (p *Parser) replaceSmileys(s string) string {
	if p.pattern == nil || s == "" {
		return s
	}
	out, err := p.pattern.ReplaceFunc(s, func(m regexp2.Match) string {
		sm, ok := p.byCode[m.String()]
		if !ok {
			return m.String()
		}
		return p.image(sm)
	}, -1, -1)
	if err != nil {
		p.logger.Warn("smiley pattern gave up", zap.String("set", p.set), zap.Error(err))
		return s
	}
	return out
}

func (p *Parser) replaceEmoji(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}
	out, err := emojiPattern.ReplaceFunc(s, func(m regexp2.Match) string {
		name := m.GroupByNumber(1).String()
		e, ok := emojis.Get(name)
		if !ok {
			return m.String()
		}
		return `<span class="emoji" title=":` + name + `:">` + string(e.Unicode) + `</span>`
	}, -1, -1)
	if err != nil {
		p.logger.Warn("emoji pattern gave up", zap.Error(err))
		return s
	}
	return out
}

func (p *Parser) image(sm Smiley) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(p.baseURL)
	b.WriteByte('/')
	b.WriteString(site.Escape(p.set))
	b.WriteByte('/')
	b.WriteString(site.Escape(sm.Filename))
	b.WriteString(`" alt="`)
	b.WriteString(site.Escape(sm.Code))
	b.WriteString(`" title="`)
	b.WriteString(site.Escape(sm.Description))
	b.WriteString(`" class="smiley" />`)
	return b.String()
}
