package models

import (
	"strings"
	"time"
)

// Category selects which structured detail accompanies a post.
type Category string

const (
	CategoryNews         Category = "news"
	CategoryNYSC         Category = "nysc"
	CategoryScholarships Category = "scholarships"
	CategoryJobs         Category = "jobs"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryNews, CategoryNYSC, CategoryScholarships, CategoryJobs}

func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Label is the capitalised category name used on badges.
func (c Category) Label() string {
	switch c {
	case CategoryNYSC:
		return "NYSC"
	case "":
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

type Author struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

type ScholarshipDetails struct {
	Country      string   `json:"country"`
	Degree       string   `json:"degree"`
	Funding      string   `json:"funding"`
	Deadline     string   `json:"deadline"`
	Requirements []string `json:"requirements"`
}

type JobDetails struct {
	Company             string   `json:"company"`
	Location            string   `json:"location"`
	SalaryRange         string   `json:"salaryRange,omitempty"`
	SalaryMin           *int     `json:"salaryMin,omitempty"`
	SalaryMax           *int     `json:"salaryMax,omitempty"`
	JobType             string   `json:"jobType"`
	ApplicationDeadline string   `json:"applicationDeadline"`
	Link                string   `json:"link"`
	Responsibilities    []string `json:"responsibilities"`
	Requirements        []string `json:"requirements"`
}

type Post struct {
	ID           string              `json:"_id"`
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	Category     Category            `json:"category"`
	Tags         []string            `json:"tags"`
	ImagePath    string              `json:"image_path,omitempty"`
	Author       *Author             `json:"author,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	LikeCount    int                 `json:"likeCount"`
	CommentCount int                 `json:"commentCount"`
	Scholarship  *ScholarshipDetails `json:"scholarshipDetails,omitempty"`
	Job          *JobDetails         `json:"jobDetails,omitempty"`
}

// Normalize drops any structured detail that does not belong to the post's
// category, so at most one of Scholarship and Job is ever set.
func (p *Post) Normalize() {
	if p.Category != CategoryScholarships {
		p.Scholarship = nil
	}
	if p.Category != CategoryJobs {
		p.Job = nil
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Category Category
	Search   string
	Limit    int
	Offset   int
}
