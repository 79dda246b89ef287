package content

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// MaxImageSize bounds an uploaded post image.
const MaxImageSize = 5 << 20

var ErrImageType = errors.New("image must be a jpg, png, gif or webp file")

// FromForm reads the browser authoring form. Only the fields of the selected
// category are read, so stale inputs from another category never leak into
// the draft.
func FromForm(v url.Values, author string) Draft {
	var d Draft
	raw := strings.TrimSpace(v.Get("category"))
	if c, ok := models.ParseCategory(raw); ok {
		d.SetCategory(c)
	} else {
		d.Category = models.Category(raw)
	}
	d.Title = v.Get("title")
	d.Body = v.Get("body")
	d.Author = author
	d.Tags = ParseTags(v.Get("tags"))

	switch detail := d.Detail.(type) {
	case *ScholarshipDraft:
		detail.Country = strings.TrimSpace(v.Get("country"))
		detail.Degree = strings.TrimSpace(v.Get("degree"))
		detail.Funding = strings.TrimSpace(v.Get("funding"))
		detail.Deadline = strings.TrimSpace(v.Get("deadline"))
		detail.Requirements = ParseItems(v.Get("scholarshipRequirements"))
	case *JobDraft:
		detail.Company = strings.TrimSpace(v.Get("company"))
		detail.Location = strings.TrimSpace(v.Get("location"))
		detail.SalaryRange = strings.TrimSpace(v.Get("salaryRange"))
		detail.SalaryMin = formInt(v.Get("salaryMin"))
		detail.SalaryMax = formInt(v.Get("salaryMax"))
		detail.JobType = strings.TrimSpace(v.Get("jobType"))
		detail.ApplicationDeadline = strings.TrimSpace(v.Get("applicationDeadline"))
		detail.Link = strings.TrimSpace(v.Get("link"))
		detail.Responsibilities = ParseItems(v.Get("responsibilities"))
		detail.Requirements = ParseItems(v.Get("jobRequirements"))
	}
	return d
}

func formInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// ReadImage loads an uploaded image part into memory.
func ReadImage(fh *multipart.FileHeader) (*Image, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	ct, ok := AllowedImageExt[ext]
	if !ok {
		return nil, ErrImageType
	}
	if fh.Size > MaxImageSize {
		return nil, fmt.Errorf("image is larger than %d MB", MaxImageSize>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image is larger than %d MB", MaxImageSize>>20)
	}
	return &Image{Filename: filepath.Base(fh.Filename), ContentType: ct, Data: data}, nil
}
