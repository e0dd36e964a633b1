package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBuildDocument - Standalone HTML wrapper
// ---------------------------------------------------------------------------

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	doc, err := buildDocument(`a <b> & "c"`, ".x { color: red; }", `<strong class="bbc_strong">hi</strong>`)
	if err != nil {
		t.Fatalf("buildDocument() error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>a &lt;b&gt; &amp; &#34;c&#34;</title>",
		".x { color: red; }",
		`<strong class="bbc_strong">hi</strong>`,
		"bbc2html " + Version,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestTitleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"", "Message"},
		{stdinArg, "Message"},
		{"posts/welcome.bbc", "welcome"},
		{"notes.v2.txt", "notes.v2"},
	}

	for _, tt := range tests {
		if got := titleFor(tt.path); got != tt.want {
			t.Errorf("titleFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
