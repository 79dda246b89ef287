package site

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/flash"
	"github.com/edgetopconsult/edge-site/internal/models"
)

func commentsAnchor(id string) string {
	return "/post/" + url.PathEscape(id) + "#comments"
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nc := models.NewComment{
		Content: r.PostFormValue("content"),
		AuthorInfo: models.CommentAuthor{
			FullName: r.PostFormValue("fullName"),
			Email:    r.PostFormValue("email"),
		},
	}

	_, err := s.comments.Submit(r.Context(), id, nc)
	switch {
	case err == nil:
		flash.Set(w, flash.Success, "Comment added successfully!")
	case errors.Is(err, comments.ErrRefetch):
		// Stored; the live view picks it up on its next poll.
		log.Printf("site: add comment to %s: %v", id, err)
		flash.Set(w, flash.Success, "Comment added successfully!")
	case comments.IsValidation(err):
		flash.Set(w, flash.Error, sentence(err.Error()))
	case errors.Is(err, apiclient.ErrNotFound):
		flash.Set(w, flash.Error, "This post no longer exists.")
	default:
		log.Printf("site: add comment to %s: %v", id, err)
		flash.Set(w, flash.Error, apiclient.Message(err, "Could not add comment."))
	}
	http.Redirect(w, r, commentsAnchor(id), http.StatusSeeOther)
}

// commentLimited answers a comment submission rejected by the rate limiter.
func commentLimited(w http.ResponseWriter, r *http.Request) {
	flash.Set(w, flash.Error, "You are commenting too quickly. Please wait a moment and try again.")
	http.Redirect(w, r, commentsAnchor(chi.URLParam(r, "id")), http.StatusSeeOther)
}

// sentence capitalises a validation error for display.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	out := string(r)
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
