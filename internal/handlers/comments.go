package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/models"
)

func (h *Handler) postExists(w http.ResponseWriter, r *http.Request, id string) bool {
	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		log.Printf("get post: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return false
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return false
	}
	return true
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.postExists(w, r, id) {
		return
	}
	list, err := h.store.ListComments(r.Context(), id)
	if err != nil {
		log.Printf("list comments: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var nc models.NewComment
	if err := json.NewDecoder(r.Body).Decode(&nc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	nc, err := comments.Validate(nc, h.opts.CommentPolicy)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if !h.postExists(w, r, id) {
		return
	}
	created, err := h.store.CreateComment(r.Context(), id, nc)
	if err != nil {
		log.Printf("create comment: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe adds an address to the newsletter and mails a confirmation to
// new subscribers.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !content.ValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	created, err := h.store.AddSubscriber(r.Context(), req.Email)
	if err != nil {
		log.Printf("subscribe: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	if !created {
		respondMessage(w, http.StatusOK, "You are already subscribed.")
		return
	}
	if h.opts.Mailer != nil {
		if err := h.opts.Mailer.SendSubscription(req.Email); err != nil {
			log.Printf("subscription mail to %s: %v", req.Email, err)
		}
	}
	respondMessage(w, http.StatusCreated, "Successfully subscribed! Check your email for confirmation.")
}
