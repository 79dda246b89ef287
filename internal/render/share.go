package render

import (
	"net/url"
	"strings"
	"time"
)

// CopyConfirmation is how long the "copied" state of the copy-link button lasts.
const CopyConfirmation = 2 * time.Second

type ShareLink struct {
	Name  string
	Label string
	URL   string
}

// ShareLinks builds the share intents for a post page.
func ShareLinks(title, pageURL string) []ShareLink {
	u := encodeComponent(pageURL)
	t := encodeComponent(title)
	return []ShareLink{
		{Name: "twitter", Label: "Share on Twitter", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Name: "facebook", Label: "Share on Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Name: "linkedin", Label: "Share on LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
		{Name: "whatsapp", Label: "Share on WhatsApp", URL: "https://wa.me/?text=" + t + "%20" + u},
	}
}

// PostURL is the canonical public address of a post.
func PostURL(publicURL, id string) string {
	return strings.TrimRight(publicURL, "/") + "/post/" + url.PathEscape(id)
}

// encodeComponent matches encodeURIComponent: spaces become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
