package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/middleware"
	"github.com/edgetopconsult/edge-site/internal/models"
)

const maxUploadMemory = 10 << 20

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.PostFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Limit:  parsePositiveInt(q.Get("limit"), 0),
		Offset: parsePositiveInt(q.Get("offset"), 0),
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if raw := q.Get("category"); raw != "" {
		c, ok := models.ParseCategory(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid category")
			return
		}
		f.Category = c
	}
	h.listPosts(w, r, f)
}

func (h *Handler) Scholarships(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, models.PostFilter{Category: models.CategoryScholarships})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request, f models.PostFilter) {
	posts, err := h.store.ListPosts(r.Context(), f)
	if err != nil {
		log.Printf("list posts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get post: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeletePost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("delete post: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondMessage(w, http.StatusOK, "Post deleted successfully")
}

// CreatePost accepts the multipart form written by content.Payload.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	draft, err := content.DecodePayload(url.Values(r.MultipartForm.Value))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if draft.Author == "" {
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
			draft.Author = claims.UserID
		}
	}
	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := draft.Post()
	if files := r.MultipartForm.File[content.ImageField]; len(files) > 0 {
		img, err := content.ReadImage(files[0])
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		path, err := h.saveImage(img)
		if err != nil {
			log.Printf("save image: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
		post.ImagePath = path
	}

	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		log.Printf("create post: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// saveImage writes img under a random name and returns its public path.
func (h *Handler) saveImage(img *content.Image) (string, error) {
	if h.opts.UploadDir == "" {
		return "", errors.New("uploads are not configured")
	}
	if err := os.MkdirAll(h.opts.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(img.Filename))
	if err := os.WriteFile(filepath.Join(h.opts.UploadDir, name), img.Data, 0o644); err != nil {
		return "", err
	}
	return strings.TrimRight(h.opts.UploadURL, "/") + "/" + name, nil
}
