package render

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

const (
	// PlaceholderImage stands in for posts that have no image.
	PlaceholderImage = "/static/placeholder.svg"
	DateLayout       = "Jan 2, 2006"
	CardExcerpt      = 150
	maxCardTags      = 2
	defaultAuthor    = "Admin"
)

// Card is the summary of a post shown in listings.
type Card struct {
	ID           string
	Title        string
	Category     models.Category
	Badge        string
	Date         string
	Excerpt      string
	Tags         []string
	Author       string
	CommentCount int
	Image        string
	HasImage     bool
	Scholarship  *models.ScholarshipDetails
}

func NewCard(p models.Post, excerptLen int) Card {
	c := Card{
		ID:           p.ID,
		Title:        p.Title,
		Category:     p.Category,
		Badge:        p.Category.Label(),
		Date:         formatDate(p.CreatedAt),
		Excerpt:      Excerpt(p.Body, excerptLen),
		Author:       authorName(p.Author),
		CommentCount: p.CommentCount,
		Image:        PlaceholderImage,
		Scholarship:  p.Scholarship,
	}
	if len(p.Tags) > maxCardTags {
		c.Tags = p.Tags[:maxCardTags]
	} else {
		c.Tags = p.Tags
	}
	if p.ImagePath != "" {
		c.Image = p.ImagePath
		c.HasImage = true
	}
	return c
}

func NewCards(posts []models.Post, excerptLen int) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, NewCard(p, excerptLen))
	}
	return cards
}

// Detail is the full view of a single post.
type Detail struct {
	ID          string
	Title       string
	Badge       string
	Date        string
	Author      string
	Image       string
	Tags        []string
	Body        template.HTML
	Job         *JobView
	Scholarship *models.ScholarshipDetails
	LikeCount   int
}

// JobView carries the structured fields rendered in place of a job post body.
type JobView struct {
	models.JobDetails
	Salary   string
	ApplyURL string
}

func NewDetail(p models.Post) Detail {
	p.Normalize()
	d := Detail{
		ID:        p.ID,
		Title:     p.Title,
		Badge:     p.Category.Label(),
		Date:      formatDate(p.CreatedAt),
		Author:    authorName(p.Author),
		Image:     p.ImagePath,
		Tags:      p.Tags,
		LikeCount: p.LikeCount,
	}
	if p.Category == models.CategoryJobs && p.Job != nil {
		d.Job = &JobView{
			JobDetails: *p.Job,
			Salary:     salary(*p.Job),
			ApplyURL:   NormalizeLink(p.Job.Link),
		}
		return d
	}
	d.Body = Sanitize(p.Body)
	d.Scholarship = p.Scholarship
	return d
}

func authorName(a *models.Author) string {
	if a == nil || strings.TrimSpace(a.Name) == "" {
		return defaultAuthor
	}
	return a.Name
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func salary(j models.JobDetails) string {
	if j.SalaryRange != "" {
		return j.SalaryRange
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return groupDigits(*j.SalaryMin) + " - " + groupDigits(*j.SalaryMax)
	case j.SalaryMin != nil:
		return "From " + groupDigits(*j.SalaryMin)
	case j.SalaryMax != nil:
		return "Up to " + groupDigits(*j.SalaryMax)
	}
	return ""
}

func groupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
