package bbc

import (
	"github.com/elkarte/go-bbc/internal/codes"
	"github.com/elkarte/go-bbc/internal/site"
)

// DefaultMaxMessageSize bounds Input.Message in bytes.
const DefaultMaxMessageSize = 1 << 20

// Settings are the forum feature switches consulted while rendering.
type Settings = site.Settings

// Strings are the localized labels used by built-in tags.
type Strings = site.Strings

// DefaultSettings mirrors a fresh forum install.
func DefaultSettings() Settings { return site.DefaultSettings() }

// DefaultStrings returns the English label set.
func DefaultStrings() Strings { return site.DefaultStrings() }

// Tag table types, re-exported for extensions.
type (
	Tag                   = codes.Tag
	Param                 = codes.Param
	ParseTable            = codes.ParseTable
	Validator             = codes.Validator
	ValidatorFunc         = codes.ValidatorFunc
	ParsedContent         = codes.ParsedContent
	ParsedEquals          = codes.ParsedEquals
	UnparsedContent       = codes.UnparsedContent
	UnparsedEquals        = codes.UnparsedEquals
	UnparsedCommas        = codes.UnparsedCommas
	UnparsedCommasContent = codes.UnparsedCommasContent
	UnparsedEqualsContent = codes.UnparsedEqualsContent
	Closed                = codes.Closed
)

// Trim and quoting policies for Tag.
const (
	TrimNone    = codes.TrimNone
	TrimInside  = codes.TrimInside
	TrimOutside = codes.TrimOutside
	TrimBoth    = codes.TrimBoth

	QuoteNone     = codes.QuoteNone
	QuoteOptional = codes.QuoteOptional
	QuoteRequired = codes.QuoteRequired
)

// Input is one message to render.
type Input struct {
	Message         string   // raw message text, not escaped
	ForPrinting     bool     // disable tags that make no sense on paper
	ParsedTags      []string // when set, only these tags are rendered
	DisableSmileys  bool
	DisableMarkdown bool
	SmileySet       string // overrides Settings.SmileySet
}

// Result is a rendered message.
type Result struct {
	HTML string

	// Warnings lists stages that degraded without failing the render, such
	// as a markdown pass that timed out or a smiley set that failed to load.
	Warnings []string
}

// Extension adds tags and hooks to every render.
type Extension struct {
	Name      string
	Tags      []Tag
	ItemCodes func(m map[string]string)
	Parsing   func(table ParseTable)
	Printing  func(disabled map[string]bool)
}

// apply registers the extension on r.
func (e Extension) apply(r *codes.Registry) {
	for _, t := range e.Tags {
		r.Add(t)
	}
	if e.ItemCodes != nil {
		r.OnItemCodes(e.ItemCodes)
	}
	if e.Parsing != nil {
		r.OnParsing(e.Parsing)
	}
	if e.Printing != nil {
		r.OnPrinting(e.Printing)
	}
}
