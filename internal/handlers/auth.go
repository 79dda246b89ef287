package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/edgetopconsult/edge-site/internal/auth"
	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/db"
	"github.com/edgetopconsult/edge-site/internal/models"
)

const minPasswordLength = 6

// Login authenticates a user and returns a JWT with the user's profile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password required")
		return
	}
	user, err := h.store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		log.Printf("login db error: %v", err)
		respondError(w, http.StatusInternalServerError, "db error")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := h.issuer.Issue(*user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token error")
		return
	}
	respondJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: user.Profile()})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	case !content.ValidEmail(req.Email):
		respondError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	case len(req.Password) < minPasswordLength:
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	_, err = h.store.CreateUser(r.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         h.opts.DefaultRole,
	})
	if errors.Is(err, db.ErrDuplicateEmail) {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		log.Printf("register db error: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respondMessage(w, http.StatusCreated, "Registration successful. Please log in.")
}

// Dashboard returns the post count and registered users.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Dashboard(r.Context())
	if err != nil {
		log.Printf("dashboard: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), h.opts.MetricsLimit)
	m, err := h.store.Metrics(r.Context(), limit)
	if err != nil {
		log.Printf("metrics: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}
	respondJSON(w, http.StatusOK, m)
}
