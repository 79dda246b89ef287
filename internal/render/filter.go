package render

import (
	"strings"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// Filter keeps posts matching category exactly (when set) and containing term,
// case-insensitively, in the title or the stripped body (when set).
func Filter(posts []models.Post, category models.Category, term string) []models.Post {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(StripHTML(p.Body)), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}
