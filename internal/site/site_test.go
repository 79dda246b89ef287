package site

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/content"
	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/session"
)

var unauthorized = &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid token"}

type fakeAPI struct {
	mu        sync.Mutex
	posts     []models.Post
	comments  map[string][]models.Comment
	errs      map[string]error
	listCalls int
	created   []apiclient.Multipart
	newComms  []models.NewComment
	deleted   []string
	tokens    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		posts: []models.Post{
			{ID: "p1", Title: "Chevening Scholarship", Body: "<p>Fully funded</p><script>alert(1)</script>", Category: models.CategoryScholarships,
				CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Scholarship: &models.ScholarshipDetails{Country: "UK"}},
			{ID: "p2", Title: "Backend Engineer", Body: "Build APIs", Category: models.CategoryJobs,
				Job: &models.JobDetails{Company: "Acme", Link: "acme.example/jobs"}},
		},
		comments: map[string][]models.Comment{},
		errs:     map[string]error{},
	}
}

func (f *fakeAPI) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeAPI) err(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.LoginResponse, error) {
	if err := f.err("Login"); err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: "tok-" + email, User: models.Profile{ID: "u1", Name: "Ada", Role: models.RoleAdmin}}, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (string, error) {
	if err := f.err("Register"); err != nil {
		return "", err
	}
	return "User registered successfully", nil
}

func (f *fakeAPI) Dashboard(_ context.Context, token string) (*models.Dashboard, error) {
	if err := f.err("Dashboard"); err != nil {
		return nil, err
	}
	return &models.Dashboard{TotalPosts: 2, Users: []models.DashboardUser{{Name: "Ada", Email: "ada@example.com"}}}, nil
}

func (f *fakeAPI) Metrics(_ context.Context, token string) (*models.Metrics, error) {
	if err := f.err("Metrics"); err != nil {
		return nil, err
	}
	return &models.Metrics{
		PostsWithMostComments: []models.PostStat{{ID: "p1", Title: "Chevening Scholarship", CommentCount: 3}, {ID: "p2", CommentCount: 4}},
		PostsWithMostLikes:    []models.PostStat{{ID: "p1", LikeCount: 5}},
	}, nil
}

func (f *fakeAPI) ListPosts(_ context.Context, _ models.PostFilter) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.errs["ListPosts"]; err != nil {
		return nil, err
	}
	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakeAPI) Scholarships(ctx context.Context) ([]models.Post, error) {
	all, err := f.ListPosts(ctx, models.PostFilter{})
	if err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range all {
		if p.Category == models.CategoryScholarships {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &apiclient.APIError{Status: http.StatusNotFound, Message: "Post not found"}
}

func (f *fakeAPI) DeletePost(_ context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if err := f.errs["DeletePost"]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) CreatePost(_ context.Context, token string, body apiclient.Multipart) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if err := f.errs["CreatePost"]; err != nil {
		return nil, err
	}
	f.created = append(f.created, body)
	p := models.Post{ID: "new", Title: "Created", Category: models.CategoryNews}
	f.posts = append(f.posts, p)
	return &p, nil
}

func (f *fakeAPI) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs["ListComments"]; err != nil {
		return nil, err
	}
	return append([]models.Comment(nil), f.comments[postID]...), nil
}

func (f *fakeAPI) CreateComment(_ context.Context, postID string, nc models.NewComment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newComms = append(f.newComms, nc)
	c := models.Comment{ID: "c1", PostID: postID, Content: nc.Content, AuthorInfo: nc.AuthorInfo}
	f.comments[postID] = append(f.comments[postID], c)
	return &c, nil
}

func (f *fakeAPI) Subscribe(_ context.Context, email string) (string, error) {
	if err := f.err("Subscribe"); err != nil {
		return "", err
	}
	return "Subscribed", nil
}

type testSite struct {
	api     *fakeAPI
	store   *session.MemoryStore
	manager *session.Manager
	handler http.Handler
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	api := newFakeAPI()
	store := session.NewMemoryStore()
	manager := session.NewManager(store, time.Hour, false)
	srv, err := New(api, manager, Options{
		PublicURL:     "https://edge.example",
		ListingTTL:    time.Minute,
		CommentPolicy: comments.DefaultPolicy(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testSite{api: api, store: store, manager: manager, handler: srv.Router()}
}

// login starts an admin session and returns its cookie.
func (ts *testSite) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := ts.manager.Begin(context.Background(), rec, "tok", models.Profile{ID: "u1", Name: "Ada", Role: models.RoleAdmin}); err != nil {
		t.Fatal(err)
	}
	return findCookie(t, rec, session.CookieName)
}

func (ts *testSite) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postMultipart(t *testing.T, path string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// assertExpired checks the single auth-error path: session gone, cookie
// cleared, redirect to the login page with a notification.
func assertExpired(t *testing.T, ts *testSite, rec *httptest.ResponseRecorder, sessionID string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != session.LoginPath {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	if c := findCookie(t, rec, session.CookieName); c.MaxAge >= 0 {
		t.Fatalf("session cookie not cleared: %+v", c)
	}
	findCookie(t, rec, "edge_flash")
	if _, err := ts.store.Get(context.Background(), sessionID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session still stored: %v", err)
	}
}

func TestStaticPages(t *testing.T) {
	ts := newTestSite(t)
	pages := map[string]string{
		"/":             "Transform Your Future",
		"/about":        "Meet the Team",
		"/services":     "Edge Elevate Talk",
		"/testimonials": "What Our Clients Say",
		"/how-it-works": "Project Timeline",
		"/jobs":         "Current Openings",
	}
	for path, want := range pages {
		rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
			t.Errorf("%s: %d, missing %q", path, rec.Code, want)
		}
		if rec.Header().Get("X-Frame-Options") != "DENY" {
			t.Errorf("%s: secure headers missing", path)
		}
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestBlogFiltersByCategoryAndTerm(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/blog?category=jobs", nil))
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Backend Engineer") || strings.Contains(body, "Chevening") {
		t.Fatalf("category filter: %d\n%s", rec.Code, body)
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog?q=FUNDED", nil))
	body = rec.Body.String()
	if !strings.Contains(body, "Chevening") || strings.Contains(body, "Backend Engineer") {
		t.Fatal("search did not match the stripped body")
	}
	if strings.Contains(body, "<script>alert") {
		t.Fatal("excerpt leaked markup")
	}
	if ts.api.listCalls != 1 {
		t.Fatalf("list fetched %d times, want cached", ts.api.listCalls)
	}
}

func TestBlogHidesDeleteForVisitors(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	if strings.Contains(rec.Body.String(), "/delete") {
		t.Fatal("delete link shown to a visitor")
	}
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil), ts.login(t))
	if !strings.Contains(rec.Body.String(), "/blog/p1/delete") {
		t.Fatal("delete link missing for admin")
	}
}

func TestScholarshipsPage(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/scholarships", nil))
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Chevening") || !strings.Contains(body, "UK") {
		t.Fatalf("got %d\n%s", rec.Code, body)
	}
	if strings.Contains(body, "Backend Engineer") {
		t.Fatal("job post on scholarships page")
	}
}

func TestPostDetail(t *testing.T) {
	ts := newTestSite(t)
	ts.api.comments["p1"] = []models.Comment{{ID: "c0", Content: "Great news"}}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/post/p1", nil))
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	for _, want := range []string{
		"Fully funded",
		"https://twitter.com/intent/tweet?url=https%3A%2F%2Fedge.example%2Fpost%2Fp1",
		"wa.me",
		`data-copied-for="2000"`,
		"Great news",
		"Anonymous",
		"/post/p1/comments/live",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(body, "<script>alert") {
		t.Fatal("post body was not sanitised")
	}
}

func TestJobPostRendersApplyLink(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/post/p2", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `href="https://acme.example/jobs"`) || !strings.Contains(body, "Apply Now") {
		t.Fatalf("apply link missing\n%s", body)
	}
}

func TestPostNotFound(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/post/missing", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestEmptyCommentMakesNoRequest(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/post/p1/comments", url.Values{"content": {"   "}, "fullName": {"Ada"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/post/p1#comments" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	findCookie(t, rec, "edge_flash")
	if len(ts.api.newComms) != 0 {
		t.Fatal("invalid comment reached the API")
	}
}

func TestCommentSubmitted(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/post/p1/comments", url.Values{"content": {" Thanks! "}, "fullName": {"Ada"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d", rec.Code)
	}
	if len(ts.api.newComms) != 1 || ts.api.newComms[0].Content != "Thanks!" {
		t.Fatalf("sent %+v", ts.api.newComms)
	}
}

func TestCommentStoredWhenRefetchFails(t *testing.T) {
	ts := newTestSite(t)
	ts.api.fail("ListComments", &apiclient.APIError{Status: http.StatusBadGateway, Message: "upstream down"})
	rec := ts.do(postForm("/post/p1/comments", url.Values{"content": {"Thanks!"}, "fullName": {"Ada"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/post/p1#comments" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	f := findCookie(t, rec, "edge_flash")
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil), f)
	if !strings.Contains(rec.Body.String(), "Comment added successfully!") {
		t.Fatal("success notification not shown")
	}
}

func TestCommentRateLimit(t *testing.T) {
	ts := newTestSite(t)
	form := url.Values{"content": {"hi"}, "fullName": {"Ada"}}
	var rec *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		rec = ts.do(postForm("/post/p1/comments", form))
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("got %d", rec.Code)
	}
	if len(ts.api.newComms) != 10 {
		t.Fatalf("sent %d comments, want 10", len(ts.api.newComms))
	}
}

func TestLoginBeginsSession(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/adminlogin", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != dashboardPath {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	c := findCookie(t, rec, session.CookieName)
	s, err := ts.store.Get(context.Background(), c.Value)
	if err != nil || s.Token != "tok-ada@example.com" {
		t.Fatalf("stored session = %+v, %v", s, err)
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	ts := newTestSite(t)
	ts.api.fail("Login", &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"})
	rec := ts.do(postForm("/adminlogin", url.Values{"email": {"ada@example.com"}, "password": {"bad"}}))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestRegisterRequiresMatchingPasswords(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/adminregister", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret1"}, "confirmPassword": {"secret2"},
	}))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Passwords do not match") {
		t.Fatalf("got %d", rec.Code)
	}

	rec = ts.do(postForm("/adminregister", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret1"}, "confirmPassword": {"secret1"},
	}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != session.LoginPath {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestSite(t)
	c := ts.login(t)
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/logout", nil), c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d", rec.Code)
	}
	if _, err := ts.store.Get(context.Background(), c.Value); !errors.Is(err, session.ErrNotFound) {
		t.Fatal("session survived logout")
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, dashboardPath, nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != session.LoginPath {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestDashboardShowsTotals(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, dashboardPath, nil), ts.login(t))
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	// 3+4 comments and 5 likes across the ranked lists.
	if !strings.Contains(body, "<strong>7</strong><span>Comments</span>") || !strings.Contains(body, "<strong>5</strong><span>Likes</span>") {
		t.Fatalf("totals missing\n%s", body)
	}
}

func TestUnauthorizedResponsesExpireSession(t *testing.T) {
	cases := []struct {
		name   string
		method string
		req    func(t *testing.T) *http.Request
	}{
		{"dashboard", "Dashboard", func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodGet, dashboardPath, nil)
		}},
		{"metrics", "Metrics", func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodGet, dashboardPath, nil)
		}},
		{"create", "CreatePost", func(t *testing.T) *http.Request {
			return postMultipart(t, dashboardPath+"/posts", map[string]string{"title": "T", "body": "B", "category": "news"})
		}},
		{"delete", "DeletePost", func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/blog/p1/delete", nil)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestSite(t)
			ts.api.fail(tc.method, unauthorized)
			c := ts.login(t)
			rec := ts.do(tc.req(t), c)
			assertExpired(t, ts, rec, c.Value)
		})
	}
}

func TestCreatePost(t *testing.T) {
	ts := newTestSite(t)
	c := ts.login(t)

	ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	rec := ts.do(postMultipart(t, dashboardPath+"/posts", map[string]string{
		"title":           "Backend role",
		"body":            "<p>Join us</p>",
		"category":        "jobs",
		"tags":            "go, Go, remote",
		"company":         "Acme",
		"jobRequirements": "Go\nSQL",
		"country":         "ignored",
	}), c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != dashboardPath {
		t.Fatalf("got %d\n%s", rec.Code, rec.Body.String())
	}
	if len(ts.api.created) != 1 {
		t.Fatal("post not created")
	}
	payload := ts.api.created[0].(*content.Payload)
	if v, _ := payload.Get("author"); v != "u1" {
		t.Errorf("author = %q", v)
	}
	if v, _ := payload.Get("tags"); v != `["go","remote"]` {
		t.Errorf("tags = %q", v)
	}
	if v, _ := payload.Get("requirements"); v != `["Go","SQL"]` {
		t.Errorf("requirements = %q", v)
	}
	if _, ok := payload.Get("country"); ok {
		t.Error("scholarship field sent for a job post")
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	if ts.api.listCalls != 2 || !strings.Contains(rec.Body.String(), "Created") {
		t.Fatalf("listing not reloaded after create (%d loads)", ts.api.listCalls)
	}
}

func TestCreatePostValidation(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postMultipart(t, dashboardPath+"/posts", map[string]string{"body": "text", "category": "news"}), ts.login(t))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Please fill in all required fields: title") {
		t.Fatalf("got %d", rec.Code)
	}
	if len(ts.api.created) != 0 {
		t.Fatal("invalid draft reached the API")
	}
}

func TestDeleteRemovesPostFromBlog(t *testing.T) {
	ts := newTestSite(t)
	c := ts.login(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/blog/p2/delete", nil), c)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Backend Engineer") {
		t.Fatalf("confirm page: %d", rec.Code)
	}

	ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/blog/p2/delete", nil), c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/blog" {
		t.Fatalf("got %d", rec.Code)
	}
	if len(ts.api.deleted) != 1 || ts.api.tokens[0] != "tok" {
		t.Fatalf("deleted %v with %v", ts.api.deleted, ts.api.tokens)
	}

	// The fake still lists the post; the cached listing must not.
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	if strings.Contains(rec.Body.String(), "Backend Engineer") {
		t.Fatal("deleted post still listed")
	}
	if ts.api.listCalls != 1 {
		t.Fatalf("list reloaded %d times", ts.api.listCalls)
	}
}

func TestDeleteFailureKeepsPost(t *testing.T) {
	ts := newTestSite(t)
	ts.api.fail("DeletePost", &apiclient.APIError{Status: http.StatusInternalServerError, Message: "boom"})
	c := ts.login(t)

	ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/blog/p2/delete", nil), c)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d", rec.Code)
	}
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	if !strings.Contains(rec.Body.String(), "Backend Engineer") {
		t.Fatal("post removed after a failed delete")
	}
}

func TestNewsletter(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/newsletter", url.Values{"email": {"not-an-email"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d", rec.Code)
	}
	rec = ts.do(postForm("/newsletter", url.Values{"email": {"reader@example.com"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestFlashShownOnce(t *testing.T) {
	ts := newTestSite(t)
	rec := ts.do(postForm("/post/p1/comments", url.Values{"content": {""}}))
	f := findCookie(t, rec, "edge_flash")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil), f)
	if !strings.Contains(rec.Body.String(), "Comment cannot be empty.") {
		t.Fatal("flash not rendered")
	}
}

func TestDeleteOfMissingPostIsIdempotent(t *testing.T) {
	ts := newTestSite(t)
	ts.api.fail("DeletePost", &apiclient.APIError{Status: http.StatusNotFound, Message: "Post not found"})
	c := ts.login(t)

	ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/blog/p2/delete", nil), c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/blog" {
		t.Fatalf("got %d", rec.Code)
	}
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/blog", nil))
	if strings.Contains(rec.Body.String(), "Backend Engineer") {
		t.Fatal("missing post still listed")
	}
}
