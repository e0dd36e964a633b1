package parser

import (
	"bytes"

	"github.com/elkarte/go-bbc/internal/codes"
)

// frame is an open tag. Its body is collected in buf and wrapped in
// before/after when the tag closes.
type frame struct {
	name   string
	before string
	after  string
	buf    bytes.Buffer

	block      bool
	trim       codes.Trim
	noAutolink bool

	itemLi   bool // list item opened by an item code
	implicit bool // list opened by an item code

	requireChildren   []string
	disallowChildren  []string
	parsedTagsAllowed []string
}

func (s *state) top() *frame {
	return s.stack[len(s.stack)-1]
}

func (s *state) push(f *frame) {
	s.stack = append(s.stack, f)
}

// find returns the stack index of the innermost open tag called name, or -1.
func (s *state) find(name string) int {
	for i := len(s.stack) - 1; i > 0; i-- {
		if s.stack[i].name == name {
			return i
		}
	}
	return -1
}

// closeTop pops the innermost tag and writes it into its parent.
func (s *state) closeTop() {
	f := s.top()
	s.stack = s.stack[:len(s.stack)-1]

	body := f.buf.Bytes()
	if f.trim.Inside() {
		body = trimSpace(body)
	}
	parent := s.top()
	parent.buf.WriteString(f.before)
	parent.buf.Write(body)
	parent.buf.WriteString(f.after)
}

// closeImplicitly closes the innermost tag before its closer was seen. The
// closer, if it comes later, is swallowed.
func (s *state) closeImplicitly() {
	f := s.top()
	if !f.itemLi && !f.implicit {
		s.autoClosed[f.name]++
	}
	s.closeTop()
}

// closeInline closes open inline tags down to the nearest block.
func (s *state) closeInline() {
	for len(s.stack) > 1 && !s.top().block {
		s.closeImplicitly()
	}
}

// trimTrailing drops trailing whitespace and line breaks from the body.
func (f *frame) trimTrailing() {
	f.buf.Truncate(len(trimRight(f.buf.Bytes())))
}

// allowed applies the nesting rules of tag against the open tags. A block
// tag is checked against the stack as it will be once open inline tags
// are closed.
func (s *state) allowed(tag codes.Tag) bool {
	view := s.stack
	if tag.Block {
		for len(view) > 1 && !view[len(view)-1].block {
			view = view[:len(view)-1]
		}
	}
	parent := view[len(view)-1]

	if len(tag.RequireParents) > 0 && !codes.Allows(tag.RequireParents, parent.name) {
		return false
	}
	if !codes.Allows(parent.requireChildren, tag.Name) {
		return false
	}
	for _, f := range view[1:] {
		if codes.Forbids(tag.DisallowParents, f.name) {
			return false
		}
		if codes.Forbids(f.disallowChildren, tag.Name) {
			return false
		}
		if !codes.Allows(f.parsedTagsAllowed, tag.Name) {
			return false
		}
	}
	return true
}

var spaceTokens = [][]byte{[]byte(lineBreak), []byte("&nbsp;"), []byte(" "), []byte("\t")}

func trimLeft(b []byte) []byte {
	for {
		trimmed := false
		for _, tok := range spaceTokens {
			if bytes.HasPrefix(b, tok) {
				b = b[len(tok):]
				trimmed = true
			}
		}
		if !trimmed {
			return b
		}
	}
}

func trimRight(b []byte) []byte {
	for {
		trimmed := false
		for _, tok := range spaceTokens {
			if bytes.HasSuffix(b, tok) {
				b = b[:len(b)-len(tok)]
				trimmed = true
			}
		}
		if !trimmed {
			return b
		}
	}
}

func trimSpace(b []byte) []byte {
	return trimRight(trimLeft(b))
}
