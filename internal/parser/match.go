package parser

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/elkarte/go-bbc/internal/codes"
)

const quote = "&quot;"

// a name=value pair inside an unquoted value, i.e. an attribute the
// overload does not declare
var strayAttr = regexp.MustCompile(`\s[A-Za-z][\w-]*=`)

// match is an overload whose syntax fits the text at the cursor.
type match struct {
	entry   codes.Entry
	openEnd int // offset just past the opening tag
	end     int // offset past the closer for unparsed tags, openEnd otherwise
	value   string
	body    string
	params  map[string]string
}

func unparsed(t codes.ContentType) bool {
	switch t {
	case codes.TypeUnparsedContent, codes.TypeUnparsedCommasContent, codes.TypeUnparsedEqualsContent:
		return true
	}
	return false
}

func equals(t codes.ContentType) bool {
	switch t {
	case codes.TypeUnparsedEquals, codes.TypeParsedEquals, codes.TypeUnparsedCommas,
		codes.TypeUnparsedCommasContent, codes.TypeUnparsedEqualsContent:
		return true
	}
	return false
}

// match checks e against the opening tag whose name ends at offset at.
func (s *state) match(e codes.Entry, at int) (match, bool) {
	m := match{entry: e}
	stop := s.msg[at]

	switch {
	case equals(e.Type()):
		if stop != '=' {
			return m, false
		}
		value, end, ok := s.readEquals(e.Quoted, at+1)
		if !ok {
			return m, false
		}
		m.value, m.openEnd = value, end
	case len(e.Params) > 0:
		if stop != ' ' {
			return m, false
		}
		params, end, ok := s.readParams(e, at)
		if !ok {
			return m, false
		}
		m.params, m.openEnd = params, end
	default:
		if stop != ']' {
			return m, false
		}
		m.openEnd = at + 1
	}

	m.end = m.openEnd
	if unparsed(e.Type()) {
		closer := "[/" + e.Name + "]"
		i := indexFold(s.msg[m.openEnd:], closer)
		if i < 0 {
			return m, false
		}
		m.body = s.msg[m.openEnd : m.openEnd+i]
		m.end = m.openEnd + i + len(closer)
	}
	return m, true
}

// readEquals reads the value of [tag=value] starting at from.
func (s *state) readEquals(q codes.Quote, from int) (string, int, bool) {
	rest := s.msg[from:]
	if len(rest) > maxOpenTagLen {
		rest = rest[:maxOpenTagLen]
	}
	if q != codes.QuoteNone && strings.HasPrefix(rest, quote) {
		end := strings.Index(rest[len(quote):], quote+"]")
		if end >= 0 {
			v := rest[len(quote) : len(quote)+end]
			return v, from + len(quote) + end + len(quote) + 1, true
		}
	}
	if q == codes.QuoteRequired {
		return "", 0, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", 0, false
	}
	return rest[:end], from + end + 1, true
}

// readParams reads name=value attributes starting at the space at from.
// Attributes may come in any order; unknown attributes, missing required
// ones and values failing their pattern or validator reject the overload.
func (s *state) readParams(e codes.Entry, from int) (map[string]string, int, bool) {
	rest := s.msg[from:]
	if len(rest) > maxOpenTagLen {
		rest = rest[:maxOpenTagLen]
	}
	closeAt := strings.IndexByte(rest, ']')
	if closeAt < 0 {
		return nil, 0, false
	}
	attrs := rest[:closeAt]

	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	type hit struct {
		name       string
		at, valPos int
	}
	var hits []hit
	for i := 0; i < len(attrs); i++ {
		if attrs[i] != ' ' {
			continue
		}
		for _, n := range names {
			if strings.HasPrefix(attrs[i+1:], n+"=") {
				hits = append(hits, hit{name: n, at: i, valPos: i + 1 + len(n) + 1})
				break
			}
		}
	}
	if len(hits) == 0 || strings.TrimSpace(attrs[:hits[0].at]) != "" {
		return nil, 0, false
	}

	raw := make(map[string]string, len(hits))
	for i, h := range hits {
		end := len(attrs)
		if i+1 < len(hits) {
			end = hits[i+1].at
		}
		if _, dup := raw[h.name]; dup {
			return nil, 0, false
		}
		v := strings.TrimSpace(attrs[h.valPos:end])
		if !strings.HasPrefix(v, quote) && strayAttr.MatchString(v) {
			return nil, 0, false
		}
		raw[h.name] = v
	}

	params := make(map[string]string, len(e.Params))
	for _, p := range e.Params {
		v, ok := raw[p.Name]
		if !ok {
			if !p.Optional {
				return nil, 0, false
			}
			params[p.Name] = ""
			continue
		}
		v, ok = unquote(v, p.Quoted)
		if !ok {
			return nil, 0, false
		}
		if p.Match != nil {
			sub := p.Match.FindStringSubmatch(v)
			if sub == nil {
				return nil, 0, false
			}
			v = sub[0]
			if len(sub) > 1 {
				v = sub[1]
			}
		}
		if p.Validate != nil {
			out, err := p.Validate.Validate([]string{v}, e.Disabled)
			if err != nil || len(out) == 0 {
				return nil, 0, false
			}
			v = out[0]
		}
		if p.Value != "" {
			v = codes.Expand(p.Value, []string{v}, nil)
		}
		params[p.Name] = v
	}
	return params, from + closeAt + 1, true
}

func unquote(v string, q codes.Quote) (string, bool) {
	quoted := len(v) >= 2*len(quote) && strings.HasPrefix(v, quote) && strings.HasSuffix(v, quote)
	switch q {
	case codes.QuoteRequired:
		if !quoted {
			return "", false
		}
		return v[len(quote) : len(v)-len(quote)], true
	case codes.QuoteOptional:
		if quoted {
			return v[len(quote) : len(v)-len(quote)], true
		}
	}
	return v, true
}

// indexFold is a case-insensitive strings.Index for ASCII tag closers.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		j := strings.IndexByte(s[i:], '[')
		if j < 0 {
			return -1
		}
		i += j
		if i+len(sub) > len(s) {
			return -1
		}
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// values builds $1, $2... for m and runs the tag's validator.
func (s *state) values(m match) ([]string, error) {
	disabled := m.entry.Disabled
	body := m.body
	if m.entry.Trim.Inside() {
		body = string(trimSpace([]byte(body)))
	}

	switch k := m.entry.Kind.(type) {
	case codes.UnparsedEquals:
		return codes.Run(k.Validate, []string{m.value}, disabled)
	case codes.ParsedEquals:
		return []string{m.value}, nil
	case codes.UnparsedCommas:
		return codes.Run(k.Validate, strings.Split(m.value, ","), disabled)
	case codes.UnparsedContent:
		return codes.Run(k.Validate, []string{body}, disabled)
	case codes.UnparsedEqualsContent:
		return codes.Run(k.Validate, []string{body, m.value}, disabled)
	case codes.UnparsedCommasContent:
		return codes.Run(k.Validate, append([]string{body}, strings.Split(m.value, ",")...), disabled)
	}
	return nil, nil
}

// apply renders a matched tag. A rejected value leaves the opening tag as
// literal text.
func (s *state) apply(m match) bool {
	tag := m.entry.Tag
	values, err := s.values(m)
	if err != nil {
		s.p.logger.Debug("tag value rejected",
			zap.String("tag", tag.Name),
			zap.Error(err))
		s.pending.WriteString(s.msg[s.pos:m.openEnd])
		s.pos = m.openEnd
		return true
	}

	s.flushText()
	if tag.Block {
		s.closeInline()
	}
	if tag.Trim.Outside() {
		s.top().trimTrailing()
	}

	if tag.Type() == codes.TypeClosed || unparsed(tag.Type()) {
		content := contentFragment(m.entry)
		s.top().buf.WriteString(codes.Expand(content, values, m.params))
		s.pos = m.end
		s.afterClose(&frame{block: tag.Block, trim: tag.Trim})
		return true
	}

	before, after := wrapFragments(m.entry)
	s.push(&frame{
		name:              tag.Name,
		before:            codes.Expand(before, values, m.params),
		after:             codes.Expand(after, values, m.params),
		block:             tag.Block,
		trim:              tag.Trim,
		noAutolink:        tag.NoAutolink,
		requireChildren:   tag.RequireChildren,
		disallowChildren:  tag.DisallowChildren,
		parsedTagsAllowed: tag.ParsedTagsAllowed,
	})
	s.pos = m.openEnd
	if tag.Trim.Inside() {
		s.skipSpace()
	}
	return true
}

// wrapFragments returns the before/after pair of a parsed tag, honoring
// its disabled form.
func wrapFragments(e codes.Entry) (string, string) {
	if e.Disabled {
		if e.DisabledBefore != "" || e.DisabledAfter != "" {
			return e.DisabledBefore, e.DisabledAfter
		}
		if e.Block {
			return "<div>", "</div>"
		}
		return "", ""
	}
	switch k := e.Kind.(type) {
	case codes.ParsedContent:
		return k.Before, k.After
	case codes.UnparsedEquals:
		return k.Before, k.After
	case codes.ParsedEquals:
		return k.Before, k.After
	case codes.UnparsedCommas:
		return k.Before, k.After
	}
	return "", ""
}

// contentFragment returns the template of a closed or unparsed tag,
// honoring its disabled form.
func contentFragment(e codes.Entry) string {
	if e.Disabled {
		switch {
		case e.Type() == codes.TypeClosed:
			return e.DisabledContent
		case e.DisabledContent != "":
			return e.DisabledContent
		case e.DisabledBefore != "" || e.DisabledAfter != "":
			return e.DisabledBefore + "$1" + e.DisabledAfter
		case e.Block:
			return "<div>$1</div>"
		}
		return "$1"
	}
	switch k := e.Kind.(type) {
	case codes.UnparsedContent:
		return k.Content
	case codes.UnparsedEqualsContent:
		return k.Content
	case codes.UnparsedCommasContent:
		return k.Content
	case codes.Closed:
		return k.Content
	}
	return ""
}
