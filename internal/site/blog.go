package site

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/flash"
	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/posts"
	"github.com/edgetopconsult/edge-site/internal/render"
	"github.com/edgetopconsult/edge-site/internal/session"
	"github.com/edgetopconsult/edge-site/internal/ws"
)

const scholarshipExcerpt = 200

type blogPage struct {
	Cards      []render.Card
	Categories []models.Category
	Category   models.Category
	Query      string
	Total      int
	IsAdmin    bool
}

type scholarshipsPage struct {
	Cards []render.Card
	Query string
	Error string
}

type postPage struct {
	Post          render.Detail
	URL           string
	Share         []render.ShareLink
	CopyFor       time.Duration
	Comments      []ws.CommentView
	PollInterval  time.Duration
	RequireAuthor bool
	IsAdmin       bool
}

type confirmDeletePage struct {
	ID    string
	Title string
}

func (s *Server) loadPosts(ctx context.Context) ([]models.Post, error) {
	return s.api.ListPosts(ctx, models.PostFilter{})
}

func (s *Server) blog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, _ := models.ParseCategory(q.Get("category"))
	term := q.Get("q")

	all, err := s.listing.Get(r.Context(), s.loadPosts)
	if err != nil {
		log.Printf("site: list posts: %v", err)
		s.renderError(w, r, http.StatusBadGateway, "We could not load posts right now. Please try again later.")
		return
	}
	filtered := render.Filter(all, category, term)
	s.render(w, r, http.StatusOK, "blog.html", "Blog", blogPage{
		Cards:      render.NewCards(filtered, render.CardExcerpt),
		Categories: models.Categories,
		Category:   category,
		Query:      term,
		Total:      len(all),
		IsAdmin:    isAdmin(r),
	})
}

func (s *Server) scholarships(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page := scholarshipsPage{Query: term}

	list, err := s.api.Scholarships(r.Context())
	if err != nil {
		log.Printf("site: list scholarships: %v", err)
		page.Error = "Could not load scholarships. Please try again later."
	} else {
		list = render.Filter(list, models.CategoryScholarships, term)
		page.Cards = render.NewCards(list, scholarshipExcerpt)
	}
	s.render(w, r, http.StatusOK, "scholarships.html", "Scholarships", page)
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.api.GetPost(r.Context(), id)
	if errors.Is(err, apiclient.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		log.Printf("site: get post %s: %v", id, err)
		s.renderError(w, r, http.StatusBadGateway, "We could not load this post right now. Please try again later.")
		return
	}

	list, err := s.comments.List(r.Context(), id)
	if err != nil {
		// The page still renders; the live view retries.
		log.Printf("site: list comments %s: %v", id, err)
	}
	link := s.postURL(id)
	s.render(w, r, http.StatusOK, "post.html", p.Title, postPage{
		Post:          render.NewDetail(*p),
		URL:           link,
		Share:         render.ShareLinks(p.Title, link),
		CopyFor:       render.CopyConfirmation,
		Comments:      ws.NewUpdate(list).Comments,
		PollInterval:  s.opts.PollInterval,
		RequireAuthor: s.comments.Policy().RequireAuthor,
		IsAdmin:       isAdmin(r),
	})
}

func (s *Server) liveComments(w http.ResponseWriter, r *http.Request) {
	ws.ServeComments(s.hub, s.api, s.opts.PollInterval, chi.URLParam(r, "id"), w, r)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		flash.Set(w, flash.Error, "Only administrators can delete posts.")
		http.Redirect(w, r, "/blog", http.StatusSeeOther)
		return
	}
	id := chi.URLParam(r, "id")
	p, err := s.api.GetPost(r.Context(), id)
	if errors.Is(err, apiclient.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		log.Printf("site: get post %s: %v", id, err)
		s.renderError(w, r, http.StatusBadGateway, "We could not load this post right now. Please try again later.")
		return
	}
	s.render(w, r, http.StatusOK, "confirm_delete.html", "Delete post", confirmDeletePage{ID: p.ID, Title: p.Title})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.User.IsAdmin() {
		flash.Set(w, flash.Error, "Only administrators can delete posts.")
		http.Redirect(w, r, "/blog", http.StatusSeeOther)
		return
	}
	id := chi.URLParam(r, "id")
	err := s.deleter.Delete(r.Context(), id, func(ctx context.Context, id string) error {
		err := s.api.DeletePost(ctx, sess.Token, id)
		if errors.Is(err, apiclient.ErrNotFound) {
			// Already gone; drop it from the listing like a successful delete.
			return nil
		}
		return err
	})
	switch {
	case err == nil:
		flash.Set(w, flash.Success, "Post deleted successfully.")
	case errors.Is(err, apiclient.ErrUnauthorized):
		s.sessions.Expire(w, r, session.ReasonInvalidToken)
		return
	case errors.Is(err, posts.ErrDeleteInProgress):
		flash.Set(w, flash.Error, "This post is already being deleted.")
	default:
		log.Printf("site: delete post %s: %v", id, err)
		flash.Set(w, flash.Error, apiclient.Message(err, "Failed to delete post."))
	}
	http.Redirect(w, r, "/blog", http.StatusSeeOther)
}
