// Package content holds the post authoring form: the draft being edited, its
// validation, and the multipart payload sent to the content API.
package content

import (
	"regexp"
	"strings"

	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/render"
)

// Detail is the category-specific part of a draft. The only implementations
// are *ScholarshipDraft and *JobDraft; news and nysc drafts carry none.
type Detail interface {
	Category() models.Category
	appendFields(p *Payload)
}

type ScholarshipDraft struct {
	Country      string
	Degree       string
	Funding      string
	Deadline     string
	Requirements Items
}

func (*ScholarshipDraft) Category() models.Category { return models.CategoryScholarships }

type JobDraft struct {
	Company             string
	Location            string
	SalaryRange         string
	SalaryMin           *int
	SalaryMax           *int
	JobType             string
	ApplicationDeadline string
	Link                string
	Responsibilities    Items
	Requirements        Items
}

func (*JobDraft) Category() models.Category { return models.CategoryJobs }

// Image is an uploaded post image held in memory until submission.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is the state of the post authoring form.
type Draft struct {
	Title    string
	Body     string
	Category models.Category
	Author   string
	Tags     TagList
	Detail   Detail
	Image    *Image
}

func NewDraft(category models.Category) Draft {
	return Draft{Category: category, Detail: detailFor(category)}
}

// SetCategory switches the draft to another category. A detail belonging to
// a different category is discarded and replaced with an empty one.
func (d *Draft) SetCategory(c models.Category) {
	d.Category = c
	if d.Detail == nil || d.Detail.Category() != c {
		d.Detail = detailFor(c)
	}
}

func (d Draft) Scholarship() *ScholarshipDraft {
	s, _ := d.Detail.(*ScholarshipDraft)
	return s
}

func (d Draft) Job() *JobDraft {
	j, _ := d.Detail.(*JobDraft)
	return j
}

func detailFor(c models.Category) Detail {
	switch c {
	case models.CategoryScholarships:
		return &ScholarshipDraft{}
	case models.CategoryJobs:
		return &JobDraft{}
	}
	return nil
}

// Post converts the draft to the stored representation.
func (d Draft) Post() models.Post {
	p := models.Post{
		Title:    strings.TrimSpace(d.Title),
		Body:     d.Body,
		Category: d.Category,
		Tags:     d.Tags.Values(),
	}
	if d.Author != "" {
		p.Author = &models.Author{ID: d.Author}
	}
	switch detail := d.Detail.(type) {
	case *ScholarshipDraft:
		p.Scholarship = &models.ScholarshipDetails{
			Country:      detail.Country,
			Degree:       detail.Degree,
			Funding:      detail.Funding,
			Deadline:     detail.Deadline,
			Requirements: detail.Requirements.Values(),
		}
	case *JobDraft:
		p.Job = &models.JobDetails{
			Company:             detail.Company,
			Location:            detail.Location,
			SalaryRange:         detail.SalaryRange,
			SalaryMin:           detail.SalaryMin,
			SalaryMax:           detail.SalaryMax,
			JobType:             detail.JobType,
			ApplicationDeadline: detail.ApplicationDeadline,
			Link:                detail.Link,
			Responsibilities:    detail.Responsibilities.Values(),
			Requirements:        detail.Requirements.Values(),
		}
	}
	p.Normalize()
	return p
}

// ValidationError lists the required fields a draft is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Please fill in all required fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks the required fields only. Category-specific fields are left
// to the server.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(render.StripHTML(d.Title)) == "" {
		missing = append(missing, "title")
	}
	if render.StripHTML(d.Body) == "" {
		missing = append(missing, "body")
	}
	if _, ok := models.ParseCategory(string(d.Category)); !ok {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.Author) == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRegex.MatchString(s)
}
