package site

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape HTML-escapes s the way stored forum messages are escaped, quotes
// included. Smiley codes and tag values are matched against this form.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
