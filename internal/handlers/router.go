package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appmiddleware "github.com/edgetopconsult/edge-site/internal/middleware"
	"github.com/edgetopconsult/edge-site/internal/models"
)

// Router mounts the content API.
func (h *Handler) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", Health)

	// In-memory rate limiter: 5 login attempts per minute per IP
	authLimiter := appmiddleware.NewRateLimiter(5, time.Minute)
	r.With(authLimiter.Limit).Post("/login", h.Login)
	r.With(authLimiter.Limit).Post("/register", h.Register)

	publicLimiter := appmiddleware.NewRateLimiter(60, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(publicLimiter.Limit)
		r.Get("/posts", h.ListPosts)
		r.Get("/scholarships", h.Scholarships)
		r.Get("/posts/{id}", h.GetPost)
		r.Get("/posts/{id}/comments", h.ListComments)
		r.Post("/posts/{id}/comments", h.CreateComment)
		r.Post("/newsletter", h.Subscribe)
	})

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Bearer(h.issuer))
		r.Use(appmiddleware.RequireRole(models.RoleAdmin))
		r.Get("/admin-dashboard", h.Dashboard)
		r.Get("/metrics", h.Metrics)
		r.Post("/add-posts", h.CreatePost)
		r.Delete("/posts/{id}", h.DeletePost)
	})

	if h.opts.UploadDir != "" && strings.HasPrefix(h.opts.UploadURL, "/") {
		prefix := strings.TrimRight(h.opts.UploadURL, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(h.opts.UploadDir)))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}
	return r
}
