package codes

import (
	"github.com/elkarte/go-bbc/internal/site"
)

// Highlighter renders source code for [code=lang]. Implementations return
// HTML without a surrounding <pre>.
type Highlighter interface {
	Highlight(lang, code string) (string, error)
}

// Env is what the built-in table needs from its surroundings.
type Env struct {
	Site        site.Context
	Highlighter Highlighter // nil disables highlighting
}

// Entry is one parse table slot: a tag plus its resolved disabled state.
type Entry struct {
	Tag
	Disabled bool
}

// ParseTable buckets entries by the first byte of their name.
type ParseTable map[byte][]Entry

// Lookup returns the overloads registered under name, in table order.
func (pt ParseTable) Lookup(name string) []Entry {
	if name == "" {
		return nil
	}
	var out []Entry
	for _, e := range pt[name[0]] {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithTags appends addon tags after the defaults.
func WithTags(tags ...Tag) Option {
	return func(r *Registry) {
		for _, t := range tags {
			r.Add(t)
		}
	}
}

// WithDisabled disables the named tags.
func WithDisabled(names ...string) Option {
	return func(r *Registry) {
		for _, n := range names {
			r.Disable(n)
		}
	}
}

// Registry is the request-scoped BBCode table. It is built once from the
// default set and then changed through explicit deltas. It is not safe for
// concurrent mutation; build one per render.
type Registry struct {
	env      Env
	defaults []Tag
	tags     []Tag
	disabled map[string]bool

	itemCodeHooks []func(map[string]string)
	parsingHooks  []func(ParseTable)
	printingHooks []func(map[string]bool)
}

// New builds the default table exactly once and applies opts.
func New(env Env, opts ...Option) *Registry {
	defaults := buildDefaults(env)
	r := &Registry{
		env:      env,
		defaults: defaults,
		tags:     make([]Tag, 0, len(defaults)),
		disabled: make(map[string]bool),
	}
	for _, t := range defaults {
		r.tags = append(r.tags, t.clone())
	}
	for _, n := range env.Site.Settings.DisabledTags {
		r.disabled[n] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends tag. Entries sharing a name coexist as overloads.
func (r *Registry) Add(tag Tag) {
	r.tags = append(r.tags, tag.clone())
}

// Remove drops every entry named name.
func (r *Registry) Remove(name string) {
	kept := r.tags[:0]
	for _, t := range r.tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	r.tags = kept
}

// Disable marks name disabled without removing its definitions.
func (r *Registry) Disable(name string) {
	r.disabled[name] = true
}

// Restore clears the disabled mark for name.
func (r *Registry) Restore(name string) {
	delete(r.disabled, name)
}

// IsDisabled reports whether name is currently disabled.
func (r *Registry) IsDisabled(name string) bool {
	return r.disabled[name]
}

// Disabled lists disabled names in no particular order.
func (r *Registry) Disabled() []string {
	out := make([]string, 0, len(r.disabled))
	for n := range r.disabled {
		out = append(out, n)
	}
	return out
}

// Default returns a fresh copy of the built-in table. It never touches the
// live list, so repeated calls cannot duplicate entries.
func (r *Registry) Default() []Tag {
	out := make([]Tag, len(r.defaults))
	for i, t := range r.defaults {
		out[i] = t.clone()
	}
	return out
}

// Codes returns a copy of the live list.
func (r *Registry) Codes() []Tag {
	out := make([]Tag, len(r.tags))
	for i, t := range r.tags {
		out[i] = t.clone()
	}
	return out
}

// Tags returns the distinct tag names in registration order.
func (r *Registry) Tags() []string {
	seen := make(map[string]bool, len(r.tags))
	var out []string
	for _, t := range r.tags {
		if !seen[t.Name] {
			seen[t.Name] = true
			out = append(out, t.Name)
		}
	}
	return out
}

// OnItemCodes registers a callback that may edit the item code map.
func (r *Registry) OnItemCodes(fn func(codes map[string]string)) {
	r.itemCodeHooks = append(r.itemCodeHooks, fn)
}

// OnParsing registers a callback that may rewrite the parse table.
func (r *Registry) OnParsing(fn func(table ParseTable)) {
	r.parsingHooks = append(r.parsingHooks, fn)
}

// OnPrinting registers a callback that may extend the set of tags
// disabled for printing.
func (r *Registry) OnPrinting(fn func(disabled map[string]bool)) {
	r.printingHooks = append(r.printingHooks, fn)
}

// ItemCodes maps single character list markers to CSS list-style types.
func (r *Registry) ItemCodes() map[string]string {
	codes := map[string]string{
		"*": "disc",
		"@": "disc",
		"+": "square",
		"x": "square",
		"#": "decimal",
		"0": "decimal",
		"o": "circle",
		"O": "circle",
	}
	for _, fn := range r.itemCodeHooks {
		fn(codes)
	}
	return codes
}

// ForParsing freezes the live table for the interpreter.
func (r *Registry) ForParsing() ParseTable {
	table := make(ParseTable)
	for _, t := range r.tags {
		if t.Name == "" {
			continue
		}
		table[t.Name[0]] = append(table[t.Name[0]], Entry{Tag: t.clone(), Disabled: r.disabled[t.Name]})
	}

	if !r.disabled["li"] && !r.disabled["list"] {
		for code, style := range r.ItemCodes() {
			if code == "" {
				continue
			}
			table[code[0]] = append(table[code[0]], Entry{Tag: itemCodeTag(code, style)})
		}
	}

	for _, fn := range r.parsingHooks {
		fn(table)
	}
	return table
}

// SetForPrinting disables tags that make no sense on paper.
func (r *Registry) SetForPrinting() {
	off := map[string]bool{
		"color": true,
		"me":    true,
		"url":   true,
		"iurl":  true,
		"email": true,
	}
	if !r.env.Site.Settings.PrintImages {
		off["img"] = true
	}
	for _, fn := range r.printingHooks {
		fn(off)
	}
	for name, v := range off {
		if v {
			r.Disable(name)
		}
	}
}

// SetParsedTags keeps only the allowed tags; everything else is removed
// from the live list and marked disabled.
func (r *Registry) SetParsedTags(allowed []string) {
	allow := make(map[string]bool, len(allowed))
	for _, n := range allowed {
		allow[n] = true
	}
	kept := r.tags[:0]
	for _, t := range r.tags {
		if allow[t.Name] {
			kept = append(kept, t)
			continue
		}
		r.disabled[t.Name] = true
	}
	r.tags = kept
}

func itemCodeTag(code, style string) Tag {
	return Tag{
		Name:  code,
		Kind:  ItemCode{Style: style},
		Block: true,
		Trim:  TrimOutside,
	}
}
