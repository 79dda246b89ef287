// Package apiclient is a typed client for the content API's REST contract.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response. A 401 matches ErrUnauthorized and a 404
// matches ErrNotFound under errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content api: status %d", e.Status)
	}
	return fmt.Sprintf("content api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Message returns the server's message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Multipart is a request body written as multipart/form-data.
type Multipart interface {
	WriteMultipart(w *multipart.Writer) error
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", "", models.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the server's confirmation.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, "/register", "", req, &out); err != nil {
		return "", err
	}
	return out.text(), nil
}

func (c *Client) Dashboard(ctx context.Context, token string) (*models.Dashboard, error) {
	var out models.Dashboard
	if err := c.doJSON(ctx, http.MethodGet, "/admin-dashboard", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Metrics(ctx context.Context, token string) (*models.Metrics, error) {
	var out models.Metrics
	if err := c.doJSON(ctx, http.MethodGet, "/metrics", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	path := "/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Post
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return c.normalize(out), nil
}

func (c *Client) Scholarships(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.doJSON(ctx, http.MethodGet, "/scholarships", "", nil, &out); err != nil {
		return nil, err
	}
	return c.normalize(out), nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var out models.Post
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	c.normalizePost(&out)
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, token string, body Multipart) (*models.Post, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := body.WriteMultipart(mw); err != nil {
		return nil, fmt.Errorf("encode post: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encode post: %w", err)
	}
	var out models.Post
	if err := c.do(ctx, http.MethodPost, "/add-posts", token, &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/comments", "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Comment{}
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, postID string, nc models.NewComment) (*models.Comment, error) {
	var out models.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", "", nc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscribe adds an address to the newsletter list.
func (c *Client) Subscribe(ctx context.Context, email string) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, "/newsletter", "", map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	return out.text(), nil
}

type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m messageBody) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageBody
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(b, &m)
		return &APIError{Status: resp.StatusCode, Message: m.text()}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) normalize(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	for i := range posts {
		c.normalizePost(&posts[i])
	}
	return posts
}

// normalizePost enforces the category invariant and makes a relative image
// path absolute against the API host.
func (c *Client) normalizePost(p *models.Post) {
	p.Normalize()
	if strings.HasPrefix(p.ImagePath, "/") && !strings.HasPrefix(p.ImagePath, "//") {
		p.ImagePath = c.baseURL + p.ImagePath
	}
}
