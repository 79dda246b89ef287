package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Profile is the part of a user the site keeps in its session.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DashboardUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Dashboard struct {
	TotalPosts int             `json:"totalPosts"`
	Users      []DashboardUser `json:"users"`
}

type PostStat struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	CommentCount int    `json:"commentCount"`
	LikeCount    int    `json:"likeCount"`
}

type Metrics struct {
	PostsWithMostComments []PostStat `json:"postsWithMostComments"`
	PostsWithMostLikes    []PostStat `json:"postsWithMostLikes"`
}

// TotalComments sums the comment counts of the ranked posts.
func (m Metrics) TotalComments() int {
	total := 0
	for _, p := range m.PostsWithMostComments {
		total += p.CommentCount
	}
	return total
}

func (m Metrics) TotalLikes() int {
	total := 0
	for _, p := range m.PostsWithMostLikes {
		total += p.LikeCount
	}
	return total
}
