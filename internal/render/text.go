// Package render turns posts fetched from the content API into the values the
// public pages display: cards, detail views, excerpts and share links.
package render

import (
	"html"
	"html/template"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Ellipsis is appended to truncated excerpts. It is a single rune so an
// excerpt of n runes never grows past n+1.
const Ellipsis = "…"

var (
	stripPolicy = func() *bluemonday.Policy {
		p := bluemonday.StrictPolicy()
		p.AddSpaceWhenStrippingTag(true)
		return p
	}()
	bodyPolicy = bluemonday.UGCPolicy()

	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// StripHTML returns the plain text of an HTML fragment with whitespace
// collapsed. The result never contains '<' or '>'.
func StripHTML(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	text = angleBrackets.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt strips markup and truncates the text to n runes, appending an
// ellipsis when anything was cut. For n >= 0 the result is at most n+1 runes.
func Excerpt(s string, n int) string {
	text := StripHTML(s)
	runes := []rune(text)
	if len(runes) <= max(n, 0) {
		return text
	}
	if n <= 0 {
		return Ellipsis
	}
	return strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + Ellipsis
}

// Sanitize removes scripts, event handlers and other unsafe markup from a
// stored post body so it can be injected into a page.
func Sanitize(s string) template.HTML {
	return template.HTML(bodyPolicy.Sanitize(s))
}

// NormalizeLink prefixes an https scheme onto links stored without one.
func NormalizeLink(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "mailto:"):
		return link
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	}
	return "https://" + link
}
