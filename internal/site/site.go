// Package site serves the public Edge Top Consult web site. Pages are
// rendered on the server from data fetched through the content API.
package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/flash"
	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/posts"
	"github.com/edgetopconsult/edge-site/internal/render"
	"github.com/edgetopconsult/edge-site/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// API is the part of the content API the site uses; *apiclient.Client
// implements it.
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Dashboard(ctx context.Context, token string) (*models.Dashboard, error)
	Metrics(ctx context.Context, token string) (*models.Metrics, error)
	ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	Scholarships(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, token, id string) error
	CreatePost(ctx context.Context, token string, body apiclient.Multipart) (*models.Post, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID string, c models.NewComment) (*models.Comment, error)
	Subscribe(ctx context.Context, email string) (string, error)
}

type Options struct {
	PublicURL        string
	ListingTTL       time.Duration
	PollInterval     time.Duration
	CommentPolicy    comments.Policy
	CommentRateLimit int
}

type Server struct {
	api      API
	sessions *session.Manager
	hub      *comments.Hub
	comments *comments.Service
	listing  *posts.Listing
	deleter  *posts.Deleter
	opts     Options
	pages    map[string]*template.Template
}

func New(api API, sessions *session.Manager, opts Options) (*Server, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = comments.DefaultInterval
	}
	if opts.CommentRateLimit <= 0 {
		opts.CommentRateLimit = 10
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	hub := comments.NewHub()
	listing := posts.NewListing(opts.ListingTTL)
	return &Server{
		api:      api,
		sessions: sessions,
		hub:      hub,
		comments: comments.NewService(api, hub, opts.CommentPolicy),
		listing:  listing,
		deleter:  posts.NewDeleter(listing),
		opts:     opts,
		pages:    pages,
	}, nil
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"categoryURL": func(c models.Category) template.URL {
		if c == "" {
			return "/blog"
		}
		return template.URL("/blog?category=" + url.QueryEscape(string(c)))
	},
	"ms": func(d time.Duration) int64 { return d.Milliseconds() },
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := strings.TrimPrefix(name, "templates/")
		if base == "layout.html" {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		pages[base] = t
	}
	return pages, nil
}

// pageData is what every page template receives.
type pageData struct {
	Title string
	Path  string
	User  *models.Profile
	Flash *flash.Message
	Data  any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := s.pages[page]
	if !ok {
		log.Printf("site: unknown page %s", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	pd := pageData{Title: title, Path: r.URL.Path, Data: data}
	if sess := session.FromContext(r.Context()); sess != nil {
		user := sess.User
		pd.User = &user
	}
	pd.Flash = flash.Pop(w, r)

	// Render into a buffer so a template error never sends a partial page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		log.Printf("site: render %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Heading string
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error.html", http.StatusText(status), errorPage{
		Heading: fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Message: message,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error.html", "Not Found", errorPage{
		Heading: "Page not found",
		Message: "The page you are looking for does not exist or has been removed.",
	})
}

// redirectBack sends the browser to the referring page on this site, or to
// fallback when there is none.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := fallback
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host && strings.HasPrefix(ref.Path, "/") {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) postURL(id string) string {
	return render.PostURL(s.opts.PublicURL, id)
}

func isAdmin(r *http.Request) bool {
	sess := session.FromContext(r.Context())
	return sess != nil && sess.User.IsAdmin()
}
