package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// ErrDuplicateEmail is returned by CreateUser for an address already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type Store struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pgxpool.Pool
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    name TEXT NOT NULL,
	    email TEXT NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    role TEXT NOT NULL DEFAULT 'admin',
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS posts (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    title TEXT NOT NULL,
	    body TEXT NOT NULL,
	    category TEXT NOT NULL,
	    tags TEXT[],
	    image_path TEXT,
	    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
	    scholarship JSONB,
	    job JSONB,
	    like_count INTEGER NOT NULL DEFAULT 0,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS posts_category_created_idx ON posts (category, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS comments (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	    content TEXT NOT NULL,
	    author_name TEXT NOT NULL DEFAULT '',
	    author_email TEXT NOT NULL DEFAULT '',
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS subscribers (
	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	    email TEXT NOT NULL UNIQUE,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()
	for _, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const postColumns = `
	p.id::text,
	p.title,
	p.body,
	p.category,
	COALESCE(p.tags, '{}'::text[]),
	COALESCE(p.image_path, ''),
	COALESCE(u.id::text, ''),
	COALESCE(u.name, ''),
	p.scholarship,
	p.job,
	p.like_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	p.created_at
`

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		post                  models.Post
		authorID, authorName  string
		scholarship, jobBytes []byte
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Category,
		&post.Tags,
		&post.ImagePath,
		&authorID,
		&authorName,
		&scholarship,
		&jobBytes,
		&post.LikeCount,
		&post.CommentCount,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	if authorID != "" {
		post.Author = &models.Author{ID: authorID, Name: authorName}
	}
	if len(scholarship) > 0 {
		post.Scholarship = &models.ScholarshipDetails{}
		if err := json.Unmarshal(scholarship, post.Scholarship); err != nil {
			return nil, fmt.Errorf("decode scholarship: %w", err)
		}
	}
	if len(jobBytes) > 0 {
		post.Job = &models.JobDetails{}
		if err := json.Unmarshal(jobBytes, post.Job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
	}
	post.Normalize()
	return &post, nil
}

// ListPosts returns posts newest first. Search matches the title or the body
// with markup removed.
func (s *Store) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE ($1 = '' OR p.category = $1)
		  AND ($2 = ''
		       OR p.title ILIKE '%' || $2 || '%'
		       OR regexp_replace(p.body, '<[^>]*>', '', 'g') ILIKE '%' || $2 || '%')
		ORDER BY p.created_at DESC
		LIMIT NULLIF($3, 0) OFFSET $4
	`
	rows, err := s.pool.Query(ctx, query, string(f.Category), escapeLike(f.Search), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

// GetPost returns nil, nil when the post does not exist.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	post.Normalize()

	var authorID *string
	if post.Author != nil {
		if _, err := uuid.Parse(post.Author.ID); err == nil {
			authorID = &post.Author.ID
		}
	}
	scholarship, err := jsonOrNil(post.Scholarship)
	if err != nil {
		return nil, err
	}
	job, err := jsonOrNil(post.Job)
	if err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO posts (title, body, category, tags, image_path, author_id, scholarship, job)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6::uuid, $7, $8)
		RETURNING id::text
	`
	var id string
	err = s.pool.QueryRow(
		ctx,
		query,
		post.Title,
		post.Body,
		string(post.Category),
		post.Tags,
		post.ImagePath,
		authorID,
		scholarship,
		job,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost reports whether a post was removed.
func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	if s.pool == nil {
		return false, errors.New("db not initialized")
	}
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	const query = `
		SELECT id::text, post_id::text, content, author_name, author_email, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Content, &c.AuthorInfo.FullName, &c.AuthorInfo.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return comments, nil
}

func (s *Store) CreateComment(ctx context.Context, postID string, nc models.NewComment) (*models.Comment, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	const query = `
		INSERT INTO comments (post_id, content, author_name, author_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, post_id::text, content, author_name, author_email, created_at
	`
	var c models.Comment
	err := s.pool.QueryRow(ctx, query, postID, nc.Content, nc.AuthorInfo.FullName, nc.AuthorInfo.Email).Scan(
		&c.ID, &c.PostID, &c.Content, &c.AuthorInfo.FullName, &c.AuthorInfo.Email, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}

// User persistence
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, name, email, password_hash, role, created_at
	`

	var created models.User
	err := s.pool.QueryRow(ctx, query, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Role).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.PasswordHash,
		&created.Role,
		&created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	const query = `
		SELECT id::text, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := s.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// Dashboard returns the post count and every registered user.
func (s *Store) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	d := &models.Dashboard{Users: make([]models.DashboardUser, 0)}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&d.TotalPosts); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	rows, err := s.pool.Query(ctx, `SELECT name, email FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u models.DashboardUser
		if err := rows.Scan(&u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		d.Users = append(d.Users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return d, nil
}

// Metrics ranks the top posts by comments and by likes.
func (s *Store) Metrics(ctx context.Context, limit int) (*models.Metrics, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	const byComments = `
		SELECT p.id::text, p.title, COUNT(c.id), p.like_count
		FROM posts p
		LEFT JOIN comments c ON c.post_id = p.id
		GROUP BY p.id
		ORDER BY COUNT(c.id) DESC, p.created_at DESC
		LIMIT $1
	`
	const byLikes = `
		SELECT p.id::text, p.title, (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id), p.like_count
		FROM posts p
		ORDER BY p.like_count DESC, p.created_at DESC
		LIMIT $1
	`
	m := &models.Metrics{}
	var err error
	if m.PostsWithMostComments, err = s.postStats(ctx, byComments, limit); err != nil {
		return nil, err
	}
	if m.PostsWithMostLikes, err = s.postStats(ctx, byLikes, limit); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) postStats(ctx context.Context, query string, limit int) ([]models.PostStat, error) {
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	defer rows.Close()
	stats := make([]models.PostStat, 0, limit)
	for rows.Next() {
		var st models.PostStat
		if err := rows.Scan(&st.ID, &st.Title, &st.CommentCount, &st.LikeCount); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// AddSubscriber reports false when the address was already subscribed.
func (s *Store) AddSubscriber(ctx context.Context, email string) (bool, error) {
	if s.pool == nil {
		return false, errors.New("db not initialized")
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO subscribers (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("add subscriber: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func jsonOrNil(v any) ([]byte, error) {
	switch d := v.(type) {
	case *models.ScholarshipDetails:
		if d == nil {
			return nil, nil
		}
	case *models.JobDetails:
		if d == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.TrimSpace(s))
}
