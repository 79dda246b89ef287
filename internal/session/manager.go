package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/edgetopconsult/edge-site/internal/flash"
	"github.com/edgetopconsult/edge-site/internal/models"
)

const (
	CookieName = "edge_session"
	LoginPath  = "/adminlogin"
)

// Messages passed to Expire.
const (
	ReasonNotAuthenticated = "Not authenticated. Please log in."
	ReasonExpired          = "Session expired. Please log in again."
	ReasonInvalidToken     = "Session expired or token is invalid. Please log in again."
)

type contextKey string

const sessionKey contextKey = "session"

// Manager is the only code that creates or destroys sessions. Everything
// else reads them through Load or FromContext.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, secure: secure}
}

// Begin stores a new session after a successful login and sets its cookie.
func (m *Manager) Begin(ctx context.Context, w http.ResponseWriter, token string, user models.Profile) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Load returns the request's session, or nil when there is none.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	if s := FromContext(r.Context()); s != nil {
		return s, nil
	}
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return nil, nil
	}
	s, err := m.store.Get(r.Context(), c.Value)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return s, err
}

// End deletes the session and its cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		if err := m.store.Delete(r.Context(), c.Value); err != nil {
			log.Printf("session: delete %s: %v", c.Value, err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Expire is the single auth-error path: the session is cleared, the reason
// is shown as a notification and the browser is sent to the login page.
func (m *Manager) Expire(w http.ResponseWriter, r *http.Request, reason string) {
	m.End(w, r)
	flash.Set(w, flash.Error, "Authentication Error: "+reason)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// Attach loads the session, when present, into the request context.
func (m *Manager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			log.Printf("session: load: %v", err)
		}
		if s != nil {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// Require stops the request unless a session is present.
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			log.Printf("session: load: %v", err)
		}
		if s == nil {
			m.Expire(w, r, ReasonNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}
