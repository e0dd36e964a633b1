package parser

import (
	"regexp"
	"strings"
)

var (
	linkPattern = regexp.MustCompile(`(?i)\b(?:(?:https?|ftps?)://|www\.)[^\s<>\[\]]+|\b[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}\b`)

	// an HTML entity at the end of a link, like &amp;
	entityTail = regexp.MustCompile(`&[a-zA-Z0-9#]+;$`)
)

// entities that end a link in escaped text
var linkStops = []string{"&quot;", "&lt;", "&gt;", "&#039;", "&nbsp;"}

// Autolink turns bare http(s), ftp(s) and www. addresses and e-mail
// addresses in escaped text into links.
func Autolink(text string) string {
	if !strings.Contains(text, ".") {
		return text
	}
	return linkPattern.ReplaceAllStringFunc(text, func(m string) string {
		if strings.Contains(m, "@") && !strings.Contains(m, "/") {
			return `<a href="mailto:` + m + `" class="bbc_email">` + m + `</a>`
		}
		return linkURL(m)
	})
}

func linkURL(m string) string {
	url, tail := m, ""
	cut := len(url)
	for _, stop := range linkStops {
		if i := strings.Index(url, stop); i >= 0 && i < cut {
			cut = i
		}
	}
	url, tail = url[:cut], url[cut:]

	for url != "" {
		last := url[len(url)-1]
		switch {
		case last == ';' && entityTail.MatchString(url):
		case strings.IndexByte(".,;:!?'", last) >= 0:
			url, tail = url[:len(url)-1], url[len(url)-1:]+tail
			continue
		case last == ')' && strings.Count(url, "(") < strings.Count(url, ")"):
			url, tail = url[:len(url)-1], ")"+tail
			continue
		}
		break
	}

	lower := strings.ToLower(url)
	if lower == "www." || strings.HasSuffix(lower, "://") {
		return m
	}
	href := url
	if strings.HasPrefix(lower, "www.") {
		href = "http://" + url
	}
	return `<a href="` + href + `" class="bbc_link" target="_blank" rel="noopener noreferrer ugc">` + url + `</a>` + tail
}
