// Package comments implements comment submission and the live comment feed of
// a post detail view.
package comments

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/models"
)

const MaxContentLength = 5000

var (
	ErrEmptyContent  = errors.New("comment cannot be empty")
	ErrTooLong       = errors.New("comment is too long")
	ErrMissingAuthor = errors.New("please enter your name or email")
	ErrInvalidEmail  = errors.New("please enter a valid email address")
)

// Policy controls which comment fields are mandatory.
type Policy struct {
	RequireAuthor bool
}

func DefaultPolicy() Policy {
	return Policy{RequireAuthor: true}
}

// Validate trims the comment and checks it against the policy. The returned
// comment is what gets sent to the API.
func Validate(c models.NewComment, p Policy) (models.NewComment, error) {
	c.Content = strings.TrimSpace(c.Content)
	c.AuthorInfo.FullName = strings.TrimSpace(c.AuthorInfo.FullName)
	c.AuthorInfo.Email = strings.TrimSpace(c.AuthorInfo.Email)

	if c.Content == "" {
		return c, ErrEmptyContent
	}
	if utf8.RuneCountInString(c.Content) > MaxContentLength {
		return c, ErrTooLong
	}
	if p.RequireAuthor && c.AuthorInfo.FullName == "" && c.AuthorInfo.Email == "" {
		return c, ErrMissingAuthor
	}
	if c.AuthorInfo.Email != "" && !content.ValidEmail(c.AuthorInfo.Email) {
		return c, ErrInvalidEmail
	}
	return c, nil
}

// IsValidation reports whether err came from Validate.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrTooLong) ||
		errors.Is(err, ErrMissingAuthor) || errors.Is(err, ErrInvalidEmail)
}
