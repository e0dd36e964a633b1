package codes

import "regexp"

// ContentType identifies how a tag's opening bracket and body are read.
type ContentType int

const (
	TypeParsedContent ContentType = iota
	TypeUnparsedEquals
	TypeParsedEquals
	TypeUnparsedContent
	TypeClosed
	TypeUnparsedCommas
	TypeUnparsedCommasContent
	TypeUnparsedEqualsContent
	TypeItemCode
)

var typeNames = [...]string{
	TypeParsedContent:         "parsed_content",
	TypeUnparsedEquals:        "unparsed_equals",
	TypeParsedEquals:          "parsed_equals",
	TypeUnparsedContent:       "unparsed_content",
	TypeClosed:                "closed",
	TypeUnparsedCommas:        "unparsed_commas",
	TypeUnparsedCommasContent: "unparsed_commas_content",
	TypeUnparsedEqualsContent: "unparsed_equals_content",
	TypeItemCode:              "itemcode",
}

func (t ContentType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Trim controls whitespace and line break removal around a tag.
type Trim int

const (
	TrimNone Trim = iota
	TrimInside
	TrimOutside
	TrimBoth
)

// Inside reports whether whitespace just inside the tag is dropped.
func (t Trim) Inside() bool { return t == TrimInside || t == TrimBoth }

// Outside reports whether whitespace just outside the tag is dropped.
func (t Trim) Outside() bool { return t == TrimOutside || t == TrimBoth }

// Quote is the quoting policy for an equals value or a parameter.
type Quote int

const (
	QuoteNone Quote = iota
	QuoteOptional
	QuoteRequired
)

// Kind is the content-type specific part of a tag definition. The set of
// implementations is closed; switch on the concrete type.
type Kind interface {
	Type() ContentType
	kind()
}

// ParsedContent is [tag]parsed[/tag].
type ParsedContent struct {
	Before string
	After  string
}

// UnparsedEquals is [tag=value]parsed[/tag]; $1 is the value.
type UnparsedEquals struct {
	Before   string
	After    string
	Validate Validator
}

// ParsedEquals is [tag=value]parsed[/tag] where the value is display text.
type ParsedEquals struct {
	Before string
	After  string
}

// UnparsedContent is [tag]raw[/tag]; $1 is the raw body.
type UnparsedContent struct {
	Content  string
	Validate Validator
}

// Closed is a tag without body or closer, like [br].
type Closed struct {
	Content string
}

// UnparsedCommas is [tag=a,b]parsed[/tag]; $1, $2... are the comma values.
type UnparsedCommas struct {
	Before   string
	After    string
	Validate Validator
}

// UnparsedCommasContent is [tag=a,b]raw[/tag]; $1 is the body, $2... the values.
type UnparsedCommasContent struct {
	Content  string
	Validate Validator
}

// UnparsedEqualsContent is [tag=value]raw[/tag]; $1 is the body, $2 the value.
type UnparsedEqualsContent struct {
	Content  string
	Validate Validator
}

// ItemCode is a list item shorthand like [*].
type ItemCode struct {
	Style string
}

func (ParsedContent) Type() ContentType         { return TypeParsedContent }
func (UnparsedEquals) Type() ContentType        { return TypeUnparsedEquals }
func (ParsedEquals) Type() ContentType          { return TypeParsedEquals }
func (UnparsedContent) Type() ContentType       { return TypeUnparsedContent }
func (Closed) Type() ContentType                { return TypeClosed }
func (UnparsedCommas) Type() ContentType        { return TypeUnparsedCommas }
func (UnparsedCommasContent) Type() ContentType { return TypeUnparsedCommasContent }
func (UnparsedEqualsContent) Type() ContentType { return TypeUnparsedEqualsContent }
func (ItemCode) Type() ContentType              { return TypeItemCode }

func (ParsedContent) kind()         {}
func (UnparsedEquals) kind()        {}
func (ParsedEquals) kind()          {}
func (UnparsedContent) kind()       {}
func (Closed) kind()                {}
func (UnparsedCommas) kind()        {}
func (UnparsedCommasContent) kind() {}
func (UnparsedEqualsContent) kind() {}
func (ItemCode) kind()              {}

// Param is a named attribute such as width=100 in [img width=100].
// Fragments reference it as {name}.
type Param struct {
	Name     string
	Match    *regexp.Regexp // anchored; nil accepts anything up to the next param
	Quoted   Quote
	Value    string // template applied to the matched value, $1 is the value
	Validate Validator
	Optional bool
}

// Tag is one entry of the BBCode table. Several entries may share a Name;
// they are told apart by Kind and Params.
type Tag struct {
	Name   string
	Kind   Kind
	Params []Param

	DisabledBefore  string
	DisabledAfter   string
	DisabledContent string

	Quoted            Quote
	RequireParents    []string
	RequireChildren   []string
	DisallowParents   []string
	DisallowChildren  []string
	ParsedTagsAllowed []string
	Trim              Trim
	Block             bool
	NoAutolink        bool
}

// Type is a shortcut for t.Kind.Type().
func (t Tag) Type() ContentType {
	if t.Kind == nil {
		return TypeParsedContent
	}
	return t.Kind.Type()
}

// HasDisabledForm reports whether the tag defines its own disabled rendering.
func (t Tag) HasDisabledForm() bool {
	return t.DisabledBefore != "" || t.DisabledAfter != "" || t.DisabledContent != ""
}

// RequiredParams counts the non optional parameters.
func (t Tag) RequiredParams() int {
	n := 0
	for _, p := range t.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// clone copies the slices so registry callers cannot alias each other.
func (t Tag) clone() Tag {
	t.Params = append([]Param(nil), t.Params...)
	t.RequireParents = append([]string(nil), t.RequireParents...)
	t.RequireChildren = append([]string(nil), t.RequireChildren...)
	t.DisallowParents = append([]string(nil), t.DisallowParents...)
	t.DisallowChildren = append([]string(nil), t.DisallowChildren...)
	t.ParsedTagsAllowed = append([]string(nil), t.ParsedTagsAllowed...)
	return t
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

// Allows reports whether list is empty or contains name. Used for the
// RequireParents / RequireChildren / ParsedTagsAllowed allow-lists.
func Allows(list []string, name string) bool {
	return len(list) == 0 || contains(list, name)
}

// Forbids reports whether name is in a deny-list.
func Forbids(list []string, name string) bool {
	return contains(list, name)
}
