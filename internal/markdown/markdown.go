// Package markdown rewrites a small Markdown subset into BBCode before the
// BBCode interpreter runs. Only inline emphasis, rules, blockquotes and code
// spans are recognized; everything else passes through untouched.
package markdown

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// ErrPatternTimeout is returned when a pass exceeds its match budget. The
// text produced by the passes that did finish is still returned.
var ErrPatternTimeout = errors.New("markdown pattern timed out")

// Private Use Area markers. They never appear in escaped forum input and are
// removed before Parse or ParseCode return.
const (
	protectStart = "\uE000"
	protectEnd   = "\uE001"
	quoteMarker  = "\uE002"
)

const matchTimeout = 2 * time.Second

// Precompiled patterns. Lookbehind needs regexp2; RE2 cannot express it.
var (
	// Bold: **text** or __text__, never a third delimiter.
	boldPattern = compile(`(?<=^|\s|<br />)(\*\*|__)(?![*_\s])((?:(?!<br />).)+?)(?<![*_\s])\1(?=$|\s|<br />|[.,;:!?)])`, 0)

	// Italic: *text* or _text_.
	italicPattern = compile(`(?<=^|\s|<br />)([*_])(?![*_\s])((?:(?!<br />).)+?)(?<![*_\s])\1(?=$|\s|<br />|[.,;:!?)])`, 0)

	// Strikethrough: ~~text~~
	strikePattern = compile(`(?<=^|\s|<br />)~~(?![~\s])((?:(?!<br />).)+?)(?<![~\s])~~(?=$|\s|<br />|[.,;:!?)])`, 0)

	// Horizontal rule alone on its line. The line break after it stays.
	hrPattern = compile(`(?<=^|\n|<br />)[ \t]*(?:-{3,}|_{3,}|\*{3,})[ \t]*(?=\n|<br />|$)`, 0)

	// One quoted line, raw or escaped. The marker needs a blank or the line
	// end after it so smileys such as >:( are not read as quotes.
	quoteLinePattern = compile(`(?<=^|\n|<br />)(?:&gt;|>)(?:[ \t]|(?=\n|<br />|$))((?:(?!<br />)[^\n])*)`, 0)

	// Two adjacent quote blocks separated by a single line break.
	quoteMergePattern = compile(`\[/quote\]`+quoteMarker+`(\n|<br />)\[quote\]`, 0)

	// Fenced code block with an optional language.
	fencePattern = compile("(?<=^|\\n|<br />)```[ \\t]*([A-Za-z0-9_+#.\\-]*)[ \\t]*(?:\\n|<br />)(.*?)(?:\\n|<br />)?```[ \\t]*(?=\\n|<br />|$)", regexp2.Singleline)

	// Inline code span.
	inlineCodePattern = compile("(?<!`)`([^`\\n]+?)`(?!`)", 0)

	// Regions the passes must not touch.
	protectedPattern = compile(`\[(code|icode|nobbc)(?:=[^\]]*)?\].*?\[/\1\]`, regexp2.IgnoreCase|regexp2.Singleline)

	// Placeholder left by protect.
	placeholderPattern = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)
)

func compile(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = matchTimeout
	return re
}

// Parser applies the Markdown passes. The zero value is ready to use and
// safe for concurrent use.
type Parser struct{}

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse runs bold, italic, strikethrough, horizontal rule and blockquote
// passes in that order. Existing code and nobbc regions are left alone.
func (p *Parser) Parse(text string) (string, error) {
	if text == "" {
		return text, nil
	}
	body, saved, err := protect(text)
	if err != nil {
		return text, err
	}

	passes := []struct {
		name string
		fn   func(string) (string, error)
	}{
		{"bold", replacer(boldPattern, "[b]$2[/b]")},
		{"italic", replacer(italicPattern, "[i]$2[/i]")},
		{"strikethrough", replacer(strikePattern, "[s]$1[/s]")},
		{"horizontal rule", replacer(hrPattern, "[hr]")},
		{"blockquote", convertBlockquotes},
	}

	var errs []error
	for _, pass := range passes {
		out, err := pass.fn(body)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pass.name, err))
			continue
		}
		body = out
	}

	body = strings.ReplaceAll(body, quoteMarker, "")
	return restore(body, saved), errors.Join(errs...)
}

// ParseCode turns fenced blocks into [code] / [code=lang] and backtick spans
// into [icode]. Brackets inside are escaped so the interpreter shows them
// verbatim. Run it before Parse.
func (p *Parser) ParseCode(text string) (string, error) {
	if !strings.Contains(text, "`") {
		return text, nil
	}
	body, saved, err := protect(text)
	if err != nil {
		return text, err
	}

	body, err = fencePattern.ReplaceFunc(body, func(m regexp2.Match) string {
		lang := m.GroupByNumber(1).String()
		code := escapeBrackets(m.GroupByNumber(2).String())
		if lang == "" {
			return "[code]" + code + "[/code]"
		}
		return "[code=" + lang + "]" + code + "[/code]"
	}, -1, -1)
	if err != nil {
		return restore(body, saved), wrapTimeout("fenced code", err)
	}

	// Fresh [code] blocks must not be touched by the inline pass.
	body, more, err := protectFrom(body, saved)
	if err != nil {
		return restore(body, saved), err
	}
	saved = more

	body, err = inlineCodePattern.ReplaceFunc(body, func(m regexp2.Match) string {
		return "[icode]" + escapeBrackets(m.GroupByNumber(1).String()) + "[/icode]"
	}, -1, -1)
	if err != nil {
		return restore(body, saved), wrapTimeout("inline code", err)
	}
	return restore(body, saved), nil
}

func replacer(re *regexp2.Regexp, repl string) func(string) (string, error) {
	return func(s string) (string, error) {
		out, err := re.Replace(s, repl, -1, -1)
		if err != nil {
			return s, fmt.Errorf("%w: %v", ErrPatternTimeout, err)
		}
		return out, nil
	}
}

// convertBlockquotes wraps each quoted line and then joins neighbouring
// blocks, keeping the line break between them inside the quote.
func convertBlockquotes(s string) (string, error) {
	if !strings.Contains(s, "&gt;") && !strings.Contains(s, ">") {
		return s, nil
	}
	out, err := quoteLinePattern.Replace(s, "[quote]$1[/quote]"+quoteMarker, -1, -1)
	if err != nil {
		return s, wrapTimeout("blockquote", err)
	}
	for {
		merged, err := quoteMergePattern.Replace(out, "$1", -1, -1)
		if err != nil {
			return s, wrapTimeout("blockquote merge", err)
		}
		if merged == out {
			break
		}
		out = merged
	}
	return out, nil
}

func escapeBrackets(s string) string {
	return strings.NewReplacer("[", "&#91;", "]", "&#93;").Replace(s)
}

// protect swaps protected regions for numbered placeholders.
func protect(s string) (string, []string, error) {
	return protectFrom(s, nil)
}

func protectFrom(s string, saved []string) (string, []string, error) {
	if !strings.Contains(s, "[") {
		return s, saved, nil
	}
	out, err := protectedPattern.ReplaceFunc(s, func(m regexp2.Match) string {
		saved = append(saved, m.String())
		return protectStart + strconv.Itoa(len(saved)-1) + protectEnd
	}, -1, -1)
	if err != nil {
		return s, saved, wrapTimeout("protect", err)
	}
	return out, saved, nil
}

// restore puts protected regions back. Placeholders may nest when a region
// was protected twice, so it loops until none remain.
func restore(s string, saved []string) string {
	for i := 0; i <= len(saved) && strings.Contains(s, protectStart); i++ {
		s = placeholderPattern.ReplaceAllStringFunc(s, func(tok string) string {
			idx, err := strconv.Atoi(tok[len(protectStart) : len(tok)-len(protectEnd)])
			if err != nil || idx >= len(saved) {
				return ""
			}
			return saved[idx]
		})
	}
	return s
}

func wrapTimeout(pass string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPatternTimeout, pass, err)
}
