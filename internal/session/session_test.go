package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

var admin = models.Profile{ID: "u1", Name: "Ada", Role: models.RoleAdmin}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestBeginLoadEnd(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	rec := httptest.NewRecorder()
	s, err := m.Begin(context.Background(), rec, "tok", admin)
	if err != nil {
		t.Fatal(err)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly || c.Value != s.ID {
		t.Fatalf("cookie = %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	got, err := m.Load(req)
	if err != nil || got == nil || got.Token != "tok" || got.User.Name != "Ada" {
		t.Fatalf("Load = %+v, %v", got, err)
	}

	m.End(httptest.NewRecorder(), req)
	got, _ = m.Load(req)
	if got != nil {
		t.Fatal("session survived End")
	}
}

func TestLoadIgnoresGarbageCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	if s, err := m.Load(req); s != nil || err != nil {
		t.Fatalf("Load = %v, %v", s, err)
	}
}

func TestRequireRedirectsWithoutSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	called := false
	h := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admindashboard", nil))
	if called {
		t.Fatal("protected handler ran without a session")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if !strings.Contains(strings.Join(rec.Header().Values("Set-Cookie"), ";"), "edge_flash") {
		t.Fatal("expected an auth error notification")
	}
}

func TestRequirePassesSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	rec := httptest.NewRecorder()
	m.Begin(context.Background(), rec, "tok", admin)

	var seen *Session
	h := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = FromContext(r.Context()) }))
	req := httptest.NewRequest(http.MethodGet, "/admindashboard", nil)
	req.AddCookie(sessionCookie(t, rec))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.Token != "tok" {
		t.Fatalf("session in context = %+v", seen)
	}
}

func TestExpireClearsSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, time.Hour, false)
	rec := httptest.NewRecorder()
	s, _ := m.Begin(context.Background(), rec, "tok", admin)

	req := httptest.NewRequest(http.MethodPost, "/admindashboard/posts", nil)
	req.AddCookie(sessionCookie(t, rec))
	out := httptest.NewRecorder()
	m.Expire(out, req, ReasonInvalidToken)

	if _, err := store.Get(context.Background(), s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("session still stored: %v", err)
	}
	if out.Header().Get("Location") != LoginPath {
		t.Fatal("no redirect to login")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	store.Save(context.Background(), &Session{ID: "a"}, time.Minute)
	now = now.Add(2 * time.Minute)
	if _, err := store.Get(context.Background(), "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session returned: %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	store := NewRedisStore(client)
	s := &Session{ID: "test-" + time.Now().Format("150405.000"), Token: "tok", User: admin}
	if err := store.Save(ctx, s, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got.Token != "tok" || got.User.ID != "u1" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	store.Delete(ctx, s.ID)
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}
