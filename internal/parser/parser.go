// Package parser turns an HTML-escaped forum message into HTML by walking a
// frozen BBCode table. It knows nothing about individual tags: every
// rendering decision comes from the codes.ParseTable it is given.
package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/elkarte/go-bbc/internal/codes"
	"github.com/elkarte/go-bbc/internal/site"
)

const (
	lineBreak = "<br />"

	// longest tag name and opening tag considered before giving up
	maxNameLen    = 16
	maxOpenTagLen = 512
)

// Smileys replaces smiley codes in plain text. *smiley.Parser implements it.
type Smileys interface {
	Parse(text string) string
}

// Option configures a Parser.
type Option func(*Parser)

// WithSmileys sets the smiley pass run on every text chunk.
func WithSmileys(s Smileys) Option {
	return func(p *Parser) {
		p.smileys = s
	}
}

// WithLogger sets the logger used for rejected tag values.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// Parser renders messages against one parse table. It holds no per-message
// state and is safe for concurrent use.
type Parser struct {
	table   codes.ParseTable
	ctx     site.Context
	smileys Smileys
	logger  *zap.Logger
}

// New returns a Parser for table.
func New(table codes.ParseTable, ctx site.Context, opts ...Option) *Parser {
	p := &Parser{
		table:  table,
		ctx:    ctx,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse renders message. The message must already be HTML-escaped; line
// breaks become <br />. Malformed or rejected tags are kept as literal text.
func (p *Parser) Parse(message string) string {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.ReplaceAll(message, "\r", "\n")
	message = strings.ReplaceAll(message, "\n", lineBreak)

	if !p.ctx.Settings.EnableBBC {
		return p.text(message, true)
	}

	s := newState(p, message)
	s.run()
	return s.finish()
}

// text applies autolinking, space preservation and smileys to plain text.
func (p *Parser) text(s string, autolink bool) string {
	if s == "" {
		return s
	}
	if autolink && p.ctx.Settings.AutoLinkURLs {
		s = Autolink(s)
	}
	s = strings.ReplaceAll(s, "  ", " &nbsp;")
	if p.smileys != nil && p.ctx.Settings.EnableSmileys {
		s = p.smileys.Parse(s)
	}
	return s
}

// state is the walk over one message.
type state struct {
	p       *Parser
	msg     string
	pos     int
	stack   []*frame
	pending strings.Builder

	// closers to swallow for tags that were closed implicitly
	autoClosed map[string]int
}

func newState(p *Parser, msg string) *state {
	return &state{
		p:          p,
		msg:        msg,
		stack:      []*frame{{block: true}},
		autoClosed: make(map[string]int),
	}
}

func (s *state) run() {
	for s.pos < len(s.msg) {
		next := s.nextEvent()
		if next > s.pos {
			s.pending.WriteString(s.msg[s.pos:next])
			s.pos = next
		}
		if s.pos >= len(s.msg) {
			return
		}

		if strings.HasPrefix(s.msg[s.pos:], lineBreak) {
			s.endItem()
			continue
		}

		var handled bool
		if s.pos+1 < len(s.msg) && s.msg[s.pos+1] == '/' {
			handled = s.closeTag()
		} else {
			handled = s.openTag()
		}
		if !handled {
			s.pending.WriteByte('[')
			s.pos++
		}
	}
}

// nextEvent returns the offset of the next '[' or, inside a list item
// opened by an item code, the next line break.
func (s *state) nextEvent() int {
	next := len(s.msg)
	if i := strings.IndexByte(s.msg[s.pos:], '['); i >= 0 {
		next = s.pos + i
	}
	if s.top().itemLi {
		if i := strings.Index(s.msg[s.pos:next], lineBreak); i >= 0 {
			next = s.pos + i
		}
	}
	return next
}

func (s *state) finish() string {
	s.flushText()
	for len(s.stack) > 1 {
		s.closeTop()
	}
	return s.stack[0].buf.String()
}

// flushText renders pending text into the innermost open tag.
func (s *state) flushText() {
	if s.pending.Len() == 0 {
		return
	}
	text := s.pending.String()
	s.pending.Reset()
	s.top().buf.WriteString(s.p.text(text, s.autolink()))
}

func (s *state) autolink() bool {
	for _, f := range s.stack {
		if f.noAutolink {
			return false
		}
	}
	return true
}

// closeTag handles [/name] at s.pos.
func (s *state) closeTag() bool {
	end := strings.IndexByte(s.msg[s.pos+2:], ']')
	if end <= 0 || end > maxNameLen {
		return false
	}
	name := strings.ToLower(s.msg[s.pos+2 : s.pos+2+end])
	closerLen := end + 3

	idx := s.find(name)
	if idx < 0 {
		if s.autoClosed[name] > 0 {
			s.autoClosed[name]--
			s.pos += closerLen
			return true
		}
		return false
	}

	s.flushText()
	for len(s.stack)-1 > idx {
		s.closeImplicitly()
	}
	f := s.top()
	s.closeTop()
	s.pos += closerLen
	s.afterClose(f)
	return true
}

// afterClose drops the line break that follows a block and, for outside
// trimming, all following whitespace.
func (s *state) afterClose(f *frame) {
	if f.trim.Outside() {
		s.skipSpace()
		return
	}
	if f.block && strings.HasPrefix(s.msg[s.pos:], lineBreak) {
		s.pos += len(lineBreak)
	}
}

// openTag handles [name...] at s.pos.
func (s *state) openTag() bool {
	name, stop, ok := s.readName()
	if !ok {
		return false
	}
	if stop == ']' && s.itemCodeBoundary(name) {
		if style, ok := s.itemCode(name); ok {
			s.openItem(style, len(name)+2)
			return true
		}
	}

	lname := strings.ToLower(name)
	for _, e := range s.p.table.Lookup(lname) {
		if e.Type() == codes.TypeItemCode {
			continue
		}
		m, ok := s.match(e, s.pos+1+len(name))
		if !ok {
			continue
		}
		if !s.allowed(e.Tag) {
			return false
		}
		return s.apply(m)
	}
	return false
}

// readName reads the tag name after '[' and the byte that ends it.
func (s *state) readName() (string, byte, bool) {
	start := s.pos + 1
	for i := start; i < len(s.msg) && i-start <= maxNameLen; i++ {
		switch c := s.msg[i]; c {
		case ']', '=', ' ':
			if i == start {
				return "", 0, false
			}
			return s.msg[start:i], c, true
		case '[', '<', '&', '/', '\t':
			return "", 0, false
		}
	}
	return "", 0, false
}

// itemCodeBoundary reports whether a letter or digit item code such as [0]
// or [x] may start here: it must follow whitespace, ';' or a tag end, so
// arr[0] stays text.
func (s *state) itemCodeBoundary(name string) bool {
	if len(name) != 1 || !isAlnum(name[0]) || s.pos == 0 {
		return true
	}
	switch s.msg[s.pos-1] {
	case ' ', '\t', '\n', ';', '>':
		return true
	}
	return false
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// itemCode reports whether name is a list shorthand in the table.
func (s *state) itemCode(name string) (string, bool) {
	for _, e := range s.p.table.Lookup(name) {
		if ic, ok := e.Kind.(codes.ItemCode); ok {
			return ic.Style, true
		}
	}
	return "", false
}

// openItem opens a list item for an item code, opening a list first when
// none is open and closing the previous item.
func (s *state) openItem(style string, tagLen int) {
	s.flushText()
	s.closeInline()
	if s.top().name == "li" {
		s.closeTop()
	}
	if s.top().name != "list" {
		s.top().trimTrailing()
		s.push(&frame{
			name:     "list",
			before:   `<ul class="bbc_list" style="list-style-type: ` + style + `;">`,
			after:    `</ul>`,
			block:    true,
			implicit: true,
			trim:     codes.TrimInside,
		})
	}
	s.push(&frame{
		name:   "li",
		before: `<li>`,
		after:  `</li>`,
		block:  true,
		itemLi: true,
		trim:   codes.TrimOutside,
	})
	s.pos += tagLen
	for s.pos < len(s.msg) && (s.msg[s.pos] == ' ' || s.msg[s.pos] == '\t') {
		s.pos++
	}
}

// endItem closes an item code's list item at a line break. The implicit
// list closes too unless another item code follows.
func (s *state) endItem() {
	s.flushText()
	s.closeTop()
	s.pos += len(lineBreak)

	top := s.top()
	if top.implicit && !s.itemCodeAhead() {
		s.closeTop()
	}
}

func (s *state) itemCodeAhead() bool {
	i := s.pos
	for i < len(s.msg) && (s.msg[i] == ' ' || s.msg[i] == '\t') {
		i++
	}
	if i >= len(s.msg) || s.msg[i] != '[' {
		return false
	}
	end := strings.IndexByte(s.msg[i:], ']')
	if end < 2 || end > maxNameLen {
		return false
	}
	_, ok := s.itemCode(s.msg[i+1 : i+end])
	return ok
}

// skipSpace advances past whitespace, non-breaking spaces and line breaks.
func (s *state) skipSpace() {
	for s.pos < len(s.msg) {
		switch {
		case s.msg[s.pos] == ' ', s.msg[s.pos] == '\t':
			s.pos++
		case strings.HasPrefix(s.msg[s.pos:], lineBreak):
			s.pos += len(lineBreak)
		case strings.HasPrefix(s.msg[s.pos:], "&nbsp;"):
			s.pos += len("&nbsp;")
		default:
			return
		}
	}
}
