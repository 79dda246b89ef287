package content

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// ImageField is the multipart part name carrying the post image.
const ImageField = "image"

// AllowedImageExt lists the upload extensions accepted for post images.
var AllowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type Field struct {
	Name  string
	Value string
}

// Payload is the ordered multipart body of a create-post request. List
// valued fields are JSON arrays in a single field, never repeated keys.
type Payload struct {
	Fields []Field
	Image  *Image
}

// Payload builds the request body for the draft. Only the detail matching
// the draft's category contributes fields.
func (d Draft) Payload() *Payload {
	p := &Payload{Image: d.Image}
	p.add("title", strings.TrimSpace(d.Title))
	p.add("body", d.Body)
	p.add("category", string(d.Category))
	p.add("author", d.Author)
	p.addList("tags", d.Tags.Values())
	if d.Detail != nil && d.Detail.Category() == d.Category {
		d.Detail.appendFields(p)
	}
	return p
}

func (s *ScholarshipDraft) appendFields(p *Payload) {
	p.add("country", s.Country)
	p.add("degree", s.Degree)
	p.add("funding", s.Funding)
	p.add("deadline", s.Deadline)
	p.addList("requirements", s.Requirements.Values())
}

func (j *JobDraft) appendFields(p *Payload) {
	p.add("company", j.Company)
	p.add("location", j.Location)
	p.add("salaryRange", j.SalaryRange)
	if j.SalaryMin != nil {
		p.add("salaryMin", strconv.Itoa(*j.SalaryMin))
	}
	if j.SalaryMax != nil {
		p.add("salaryMax", strconv.Itoa(*j.SalaryMax))
	}
	p.add("jobType", j.JobType)
	p.add("applicationDeadline", j.ApplicationDeadline)
	p.addList("responsibilities", j.Responsibilities.Values())
	p.addList("requirements", j.Requirements.Values())
	p.add("link", j.Link)
}

func (p *Payload) add(name, value string) {
	p.Fields = append(p.Fields, Field{Name: name, Value: value})
}

func (p *Payload) addList(name string, values []string) {
	b, _ := json.Marshal(values)
	p.add(name, string(b))
}

// Get returns the value of the named field.
func (p *Payload) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// WriteMultipart writes every field, then the image if one is attached.
// It does not close w.
func (p *Payload) WriteMultipart(w *multipart.Writer) error {
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	if p.Image == nil {
		return nil
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, filepath.Base(p.Image.Filename)))
	ct := p.Image.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(p.Image.Data)
	return err
}

// DecodePayload reads a create-post form as sent by Payload. The image part
// is handled by the caller.
func DecodePayload(v url.Values) (Draft, error) {
	category, ok := models.ParseCategory(v.Get("category"))
	if !ok {
		return Draft{}, fmt.Errorf("invalid category %q", v.Get("category"))
	}
	d := NewDraft(category)
	d.Title = v.Get("title")
	d.Body = v.Get("body")
	d.Author = v.Get("author")

	tags, err := decodeList(v, "tags")
	if err != nil {
		return Draft{}, err
	}
	d.Tags = NewTagList(tags...)

	switch detail := d.Detail.(type) {
	case *ScholarshipDraft:
		detail.Country = v.Get("country")
		detail.Degree = v.Get("degree")
		detail.Funding = v.Get("funding")
		detail.Deadline = v.Get("deadline")
		reqs, err := decodeList(v, "requirements")
		if err != nil {
			return Draft{}, err
		}
		detail.Requirements = Items(reqs)
	case *JobDraft:
		detail.Company = v.Get("company")
		detail.Location = v.Get("location")
		detail.SalaryRange = v.Get("salaryRange")
		detail.JobType = v.Get("jobType")
		detail.ApplicationDeadline = v.Get("applicationDeadline")
		detail.Link = v.Get("link")
		if detail.SalaryMin, err = decodeInt(v, "salaryMin"); err != nil {
			return Draft{}, err
		}
		if detail.SalaryMax, err = decodeInt(v, "salaryMax"); err != nil {
			return Draft{}, err
		}
		resp, err := decodeList(v, "responsibilities")
		if err != nil {
			return Draft{}, err
		}
		reqs, err := decodeList(v, "requirements")
		if err != nil {
			return Draft{}, err
		}
		detail.Responsibilities = Items(resp)
		detail.Requirements = Items(reqs)
	}
	return d, nil
}

func decodeList(v url.Values, name string) ([]string, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%s must be a JSON array of strings", name)
	}
	return out, nil
}

func decodeInt(v url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", name)
	}
	return &n, nil
}
