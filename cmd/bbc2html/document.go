package main

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// documentTemplate wraps a rendered message in a minimal page.
var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="bbc2html {{.Version}}">
<title>{{.Title}}</title>
<style>
{{.CSS}}
</style>
</head>
<body>
<div class="post_wrapper">
<div class="inner">{{.Body}}</div>
</div>
</body>
</html>
`))

// documentData feeds documentTemplate.
type documentData struct {
	Title   string
	Version string
	CSS     template.CSS
	Body    template.HTML
}

// buildDocument renders a standalone HTML page around body. body and css
// come from the renderer and are trusted.
func buildDocument(title, css, body string) (string, error) {
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, documentData{
		Title:   title,
		Version: Version,
		CSS:     template.CSS(css),   // #nosec G203 -- renderer stylesheet
		Body:    template.HTML(body), // #nosec G203 -- renderer output
	})
	if err != nil {
		return "", fmt.Errorf("building document: %w", err)
	}
	return buf.String(), nil
}

// titleFor derives a page title from a message file name.
func titleFor(path string) string {
	if path == "" || path == stdinArg {
		return "Message"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
