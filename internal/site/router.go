package site

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/edgetopconsult/edge-site/internal/middleware"
)

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(s.sessions.Attach)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.static("home.html", "Edge - Modern Business Solutions", home))
	r.Get("/about", s.static("about.html", "About Us", about))
	r.Get("/services", s.static("services.html", "Our Services", services))
	r.Get("/testimonials", s.static("testimonials.html", "Testimonials", testimonials))
	r.Get("/how-it-works", s.static("how_it_works.html", "How It Works", howItWorks))
	r.Get("/jobs", s.static("jobs.html", "Careers", jobs))
	r.Post("/newsletter", s.subscribe)

	r.Get("/blog", s.blog)
	r.Get("/scholarships", s.scholarships)

	commentLimiter := middleware.NewRateLimiter(s.opts.CommentRateLimit, time.Minute)
	commentLimiter.Rejected = commentLimited

	r.Route("/post/{id}", func(r chi.Router) {
		r.Get("/", s.post)
		r.With(commentLimiter.Limit).Post("/comments", s.addComment)
		r.Get("/comments/live", s.liveComments)
	})

	r.Get("/adminlogin", s.loginForm)
	r.Post("/adminlogin", s.login)
	r.Get("/adminregister", s.registerForm)
	r.Post("/adminregister", s.register)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Require)
		r.Get("/blog/{id}/delete", s.confirmDelete)
		r.Post("/blog/{id}/delete", s.deletePost)
		r.Get(dashboardPath, s.dashboard)
		r.Post(dashboardPath+"/posts", s.createPost)
	})

	r.NotFound(s.notFound)
	return r
}
