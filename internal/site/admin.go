package site

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/flash"
	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/session"
)

const dashboardPath = "/admindashboard"

type authPage struct {
	Form  url.Values
	Error string
}

type dashboardPage struct {
	User          models.Profile
	Dashboard     models.Dashboard
	Metrics       models.Metrics
	TotalComments int
	TotalLikes    int
	Categories    []models.Category
	Form          url.Values
	Error         string
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", "Admin Login", authPage{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	form := url.Values{"email": {email}}
	if email == "" || password == "" {
		s.render(w, r, http.StatusBadRequest, "login.html", "Admin Login", authPage{Form: form, Error: "Email and password are required."})
		return
	}

	resp, err := s.api.Login(r.Context(), email, password)
	if err != nil {
		status := http.StatusUnauthorized
		msg := apiclient.Message(err, "Invalid credentials")
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) {
			log.Printf("site: login: %v", err)
			status = http.StatusBadGateway
			msg = "Failed to connect to server"
		}
		s.render(w, r, status, "login.html", "Admin Login", authPage{Form: form, Error: msg})
		return
	}
	if _, err := s.sessions.Begin(r.Context(), w, resp.Token, resp.User); err != nil {
		log.Printf("site: begin session: %v", err)
		s.renderError(w, r, http.StatusInternalServerError, "We could not sign you in right now. Please try again.")
		return
	}
	flash.Set(w, flash.Success, "Welcome back, "+resp.User.Name+"!")
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", "Create Admin Account", authPage{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	req := models.RegisterRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	form := url.Values{"name": {req.Name}, "email": {req.Email}}
	fail := func(status int, msg string) {
		s.render(w, r, status, "register.html", "Create Admin Account", authPage{Form: form, Error: msg})
	}

	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		fail(http.StatusBadRequest, "Please fill in all fields.")
		return
	case !content.ValidEmail(req.Email):
		fail(http.StatusBadRequest, "Please enter a valid email address.")
		return
	case req.Password != r.PostFormValue("confirmPassword"):
		fail(http.StatusBadRequest, "Passwords do not match")
		return
	}

	if _, err := s.api.Register(r.Context(), req); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			fail(apiErr.Status, apiclient.Message(err, "Failed to create account"))
			return
		}
		log.Printf("site: register: %v", err)
		fail(http.StatusBadGateway, "Failed to connect to server")
		return
	}
	flash.Set(w, flash.Success, "Admin account created successfully. Please login.")
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(w, r)
	flash.Set(w, flash.Success, "You have been successfully logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, nil, "")
}

// renderDashboard fetches the dashboard and the metrics concurrently. A 401
// from either ends the session.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, form url.Values, formErr string) {
	sess := session.FromContext(r.Context())
	if !sess.User.IsAdmin() {
		flash.Set(w, flash.Error, "Admin access required.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var (
		dash    *models.Dashboard
		metrics *models.Metrics
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		dash, err = s.api.Dashboard(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.api.Metrics(ctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			s.sessions.Expire(w, r, session.ReasonExpired)
			return
		}
		log.Printf("site: dashboard: %v", err)
		s.renderError(w, r, http.StatusBadGateway, "Connection Error: Failed to fetch dashboard data. Please try again later.")
		return
	}

	if form == nil {
		form = url.Values{"category": {string(models.CategoryNews)}}
	}
	s.render(w, r, status, "dashboard.html", "Admin Dashboard", dashboardPage{
		User:          sess.User,
		Dashboard:     *dash,
		Metrics:       *metrics,
		TotalComments: metrics.TotalComments(),
		TotalLikes:    metrics.TotalLikes(),
		Categories:    models.Categories,
		Form:          form,
		Error:         formErr,
	})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if err := r.ParseMultipartForm(content.MaxImageSize + 1<<20); err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, r.PostForm, "Could not read the form. Images must be under 5 MB.")
		return
	}
	form := r.PostForm

	draft := content.FromForm(form, sess.User.ID)
	if files := r.MultipartForm.File[content.ImageField]; len(files) > 0 {
		img, err := content.ReadImage(files[0])
		if err != nil {
			s.renderDashboard(w, r, http.StatusBadRequest, form, err.Error())
			return
		}
		draft.Image = img
	}
	if err := draft.Validate(); err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, form, err.Error())
		return
	}

	_, err := s.api.CreatePost(r.Context(), sess.Token, draft.Payload())
	if errors.Is(err, apiclient.ErrUnauthorized) {
		s.sessions.Expire(w, r, session.ReasonInvalidToken)
		return
	}
	if err != nil {
		log.Printf("site: create post: %v", err)
		s.renderDashboard(w, r, http.StatusBadGateway, form, apiclient.Message(err, "Failed to create post"))
		return
	}

	s.listing.Invalidate()
	flash.Set(w, flash.Success, "Blog post created successfully!")
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}
