// Package handlers serves the content API consumed by the site.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/edgetopconsult/edge-site/internal/auth"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/models"
)

// Store is the persistence used by the handlers; *db.Store implements it.
type Store interface {
	ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID string, c models.NewComment) (*models.Comment, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Metrics(ctx context.Context, limit int) (*models.Metrics, error)
	AddSubscriber(ctx context.Context, email string) (bool, error)
}

// Mailer sends the newsletter confirmation.
type Mailer interface {
	SendSubscription(to string) error
}

type Options struct {
	UploadDir     string
	UploadURL     string
	DefaultRole   string
	CommentPolicy comments.Policy
	MetricsLimit  int
	Mailer        Mailer
}

type Handler struct {
	store  Store
	issuer *auth.Issuer
	opts   Options
}

func New(store Store, issuer *auth.Issuer, opts Options) *Handler {
	if opts.DefaultRole == "" {
		opts.DefaultRole = models.RoleUser
	}
	if opts.MetricsLimit <= 0 {
		opts.MetricsLimit = 5
	}
	return &Handler{store: store, issuer: issuer, opts: opts}
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Errors and confirmations share the {"message": ...} shape.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondMessage(w, status, message)
}
