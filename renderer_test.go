package bbc

// Notes:
// - Renders real messages through every stage; no stage is mocked
// - Smiley sources are SmileySourceFunc stubs so loads can be counted
// - Extension hooks are used to inject failures into the registry stage

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts...)
	if err != nil {
		t.Fatalf("NewRenderer() unexpected error: %v", err)
	}
	return r
}

func render(t *testing.T, r *Renderer, in Input) *Result {
	t.Helper()
	res, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render(%q) unexpected error: %v", in.Message, err)
	}
	return res
}

type countingSource struct {
	calls   atomic.Int32
	smileys []Smiley
	err     error
}

func (s *countingSource) Load(context.Context, string) ([]Smiley, error) {
	s.calls.Add(1)
	return s.smileys, s.err
}

// ---------------------------------------------------------------------------
// TestValidateInput
// ---------------------------------------------------------------------------

func TestValidateInput(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithMaxMessageSize(16))

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "valid", input: Input{Message: "hello"}},
		{name: "empty", input: Input{Message: ""}, wantErr: ErrEmptyMessage},
		{name: "whitespace only", input: Input{Message: " \n\t"}, wantErr: ErrEmptyMessage},
		{name: "too large", input: Input{Message: strings.Repeat("x", 17)}, wantErr: ErrMessageTooLarge},
		{name: "blank parsed tag", input: Input{Message: "x", ParsedTags: []string{""}}, wantErr: ErrInvalidInput},
		{name: "long parsed tag", input: Input{Message: "x", ParsedTags: []string{strings.Repeat("b", 17)}}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := r.validateInput(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateInput() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateInput() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender - Pipeline
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{
			name:  "escapes raw html",
			input: Input{Message: `<script>alert("x")</script>`},
			want:  `&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;`,
		},
		{
			name:  "bbcode",
			input: Input{Message: "[b]x[/b]"},
			want:  `<strong class="bbc_strong">x</strong>`,
		},
		{
			name:  "markdown emphasis",
			input: Input{Message: "a *b* c"},
			want:  `a <em>b</em> c`,
		},
		{
			name:  "markdown disabled",
			input: Input{Message: "a *b* c", DisableMarkdown: true},
			want:  `a *b* c`,
		},
		{
			name:  "strips placeholder runes",
			input: Input{Message: "abc", DisableSmileys: true},
			want:  `abc`,
		},
		{
			name:  "smileys disabled",
			input: Input{Message: "hi :)", DisableSmileys: true},
			want:  `hi :)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := render(t, r, tt.input)
			if got.HTML != tt.want {
				t.Errorf("Render(%q).HTML\n got %q\nwant %q", tt.input.Message, got.HTML, tt.want)
			}
			if len(got.Warnings) != 0 {
				t.Errorf("Render(%q) warnings = %v, want none", tt.input.Message, got.Warnings)
			}
		})
	}
}

func TestRender_ValidationError(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	res, err := r.Render(context.Background(), Input{})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Render() error = %v, want ErrEmptyMessage", err)
	}
	if res != nil {
		t.Errorf("Render() result = %+v, want nil", res)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, Input{Message: "[b]x[/b]"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_ForPrinting(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	got := render(t, r, Input{Message: "[color=red]x[/color]", ForPrinting: true})
	if got.HTML != "x" {
		t.Errorf("Render().HTML = %q, want %q", got.HTML, "x")
	}
}

func TestRender_BBCDisabled(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.EnableBBC = false
	r := newTestRenderer(t, WithSettings(s))

	got := render(t, r, Input{Message: "[b]x[/b]", DisableSmileys: true})
	if got.HTML != "[b]x[/b]" {
		t.Errorf("Render().HTML = %q, want literal tags", got.HTML)
	}
}

func TestRender_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithExtension(Extension{
		Name: "broken",
		Parsing: func(ParseTable) {
			panic("boom")
		},
	}))

	_, err := r.Render(context.Background(), Input{Message: "x"})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Render() error = %v, want ErrRender", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Render() error = %q, want panic value", err)
	}
}

func TestRender_WithClock(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	now := func() time.Time {
		calls.Add(1)
		return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	}
	r := newTestRenderer(t, WithClock(now))
	render(t, r, Input{Message: "x"})

	if calls.Load() < 2 {
		t.Errorf("clock called %d times, want at least 2", calls.Load())
	}
}

// ---------------------------------------------------------------------------
// TestRender - Smileys
// ---------------------------------------------------------------------------

func TestRender_SmileySource(t *testing.T) {
	t.Parallel()

	src := &countingSource{smileys: []Smiley{{Code: ":)", Filename: "s.gif", Description: "S"}}}
	r := newTestRenderer(t,
		WithSmileySource(src),
		WithSite("", "https://forum.example.com/smileys", ""),
	)

	for range 3 {
		got := render(t, r, Input{Message: "hi :)"})
		want := `hi <img src="https://forum.example.com/smileys/default/s.gif" alt=":)" title="S" class="smiley" />`
		if got.HTML != want {
			t.Fatalf("Render().HTML\n got %q\nwant %q", got.HTML, want)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source loaded %d times, want 1", n)
	}
}

func TestRender_SmileysAtLineStartAreNotQuotes(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	tests := []struct {
		name  string
		msg   string
		title string
	}{
		{name: "angry", msg: ">:( grr", title: `title="Angry"`},
		{name: "evil after a line break", msg: "ok\n>:D evil", title: `title="Evil"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := render(t, r, Input{Message: tt.msg}).HTML
			if strings.Contains(got, "blockquote") {
				t.Errorf("Render(%q) = %q, want no quote", tt.msg, got)
			}
			if !strings.Contains(got, tt.title) {
				t.Errorf("Render(%q) = %q, want %s", tt.msg, got, tt.title)
			}
		})
	}
}

func TestRender_SmileySetOverride(t *testing.T) {
	t.Parallel()

	var sets []string
	src := SmileySourceFunc(func(_ context.Context, set string) ([]Smiley, error) {
		sets = append(sets, set)
		return []Smiley{{Code: ":)", Filename: "s.gif"}}, nil
	})
	r := newTestRenderer(t, WithSmileySource(src))
	render(t, r, Input{Message: "a :)", SmileySet: "classic"})

	if diff := cmp.Diff([]string{"classic"}, sets); diff != "" {
		t.Errorf("requested sets mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SmileyFailureIsAWarning(t *testing.T) {
	t.Parallel()

	src := &countingSource{err: errors.New("db down")}
	r := newTestRenderer(t, WithSmileySource(src))

	got := render(t, r, Input{Message: "[b]x[/b] :)"})
	if got.HTML != `<strong class="bbc_strong">x</strong> :)` {
		t.Errorf("Render().HTML = %q", got.HTML)
	}
	if len(got.Warnings) != 1 || !strings.HasPrefix(got.Warnings[0], "smileys: ") {
		t.Errorf("Warnings = %v, want one smileys warning", got.Warnings)
	}
}

func TestRender_MissingSmileySet(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	got := render(t, r, Input{Message: "x :)", SmileySet: "does-not-exist"})
	if len(got.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", got.Warnings)
	}
	if !strings.Contains(got.Warnings[0], "not found") {
		t.Errorf("warning = %q, want not found", got.Warnings[0])
	}
}

// ---------------------------------------------------------------------------
// TestRender - Extensions and Sanitizing
// ---------------------------------------------------------------------------

func TestRender_Extension(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithExtension(Extension{
		Name: "site",
		Tags: []Tag{{Name: "kbd", Kind: ParsedContent{Before: "<kbd>", After: "</kbd>"}}},
		Printing: func(disabled map[string]bool) {
			disabled["kbd"] = true
		},
	}))

	if got := render(t, r, Input{Message: "[kbd]x[/kbd]"}); got.HTML != "<kbd>x</kbd>" {
		t.Errorf("Render().HTML = %q, want kbd markup", got.HTML)
	}
	if got := render(t, r, Input{Message: "[kbd]x[/kbd]", ForPrinting: true}); got.HTML != "x" {
		t.Errorf("print Render().HTML = %q, want bare content", got.HTML)
	}
}

func TestRender_Sanitize(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t,
		WithSanitize(true),
		WithExtension(Extension{
			Name: "unsafe",
			Tags: []Tag{{Name: "js", Kind: ParsedContent{Before: "<script>", After: "</script>"}}},
		}),
	)

	got := render(t, r, Input{Message: "[js]x[/js][b]y[/b][color=red]z[/color]"})
	if strings.Contains(got.HTML, "<script") {
		t.Errorf("sanitized HTML still has a script element: %q", got.HTML)
	}
	for _, want := range []string{`class="bbc_strong"`, `color: red`} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("sanitized HTML %q lost %q", got.HTML, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestNewRenderer / Stylesheet
// ---------------------------------------------------------------------------

func TestNewRenderer_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithAssetPath("/nonexistent/go-bbc/assets"))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewRenderer() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []Option
		wantChroma bool
	}{
		{name: "with highlighting", wantChroma: true},
		{name: "without highlighting", opts: []Option{WithHighlighting("")}, wantChroma: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := newTestRenderer(t, tt.opts...).Stylesheet()
			if err != nil {
				t.Fatalf("Stylesheet() unexpected error: %v", err)
			}
			if !strings.Contains(css, ".bbc_strong") {
				t.Error("Stylesheet() lacks the message styles")
			}
			if got := strings.Contains(css, ".chroma"); got != tt.wantChroma {
				t.Errorf("Stylesheet() has chroma rules = %v, want %v", got, tt.wantChroma)
			}
		})
	}
}

func TestWithStrings_KeepsDefaults(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithStrings(Strings{Quote: "Zitat"}))
	if r.site.Strings.Quote != "Zitat" {
		t.Errorf("Quote = %q, want Zitat", r.site.Strings.Quote)
	}
	if r.site.Strings.Code != DefaultStrings().Code {
		t.Errorf("Code = %q, want default", r.site.Strings.Code)
	}
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "cache ttl", fn: func() { WithCacheTTL(0) }},
		{name: "max message size", fn: func() { WithMaxMessageSize(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender_BalancedMarkup - Auto-closed tags leave well-formed HTML
// ---------------------------------------------------------------------------

var voidElements = map[atom.Atom]bool{
	atom.Br: true, atom.Hr: true, atom.Img: true, atom.Input: true, atom.Wbr: true,
}

func TestRender_BalancedMarkup(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	messages := []string{
		"[b][i]x",
		"[quote]a[code]b",
		"[list][*]a[*]b",
		"[url=https://example.com]x",
		"[spoiler][u]hidden",
	}

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			t.Parallel()

			out := render(t, r, Input{Message: msg, DisableSmileys: true}).HTML
			var open []atom.Atom
			z := html.NewTokenizer(strings.NewReader(out))
			for {
				tt := z.Next()
				if tt == html.ErrorToken {
					break
				}
				tok := z.Token()
				switch {
				case tt == html.StartTagToken && !voidElements[tok.DataAtom]:
					open = append(open, tok.DataAtom)
				case tt == html.EndTagToken:
					if len(open) == 0 || open[len(open)-1] != tok.DataAtom {
						t.Fatalf("unexpected </%s> in %q", tok.Data, out)
					}
					open = open[:len(open)-1]
				}
			}
			if len(open) != 0 {
				t.Errorf("%d element(s) left open in %q", len(open), out)
			}
		})
	}
}
