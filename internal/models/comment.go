package models

import "time"

type CommentAuthor struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Comment struct {
	ID         string        `json:"_id"`
	PostID     string        `json:"post"`
	Content    string        `json:"content"`
	AuthorInfo CommentAuthor `json:"author_info"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// NewComment is the body of a comment submission.
type NewComment struct {
	Content    string        `json:"content"`
	AuthorInfo CommentAuthor `json:"author_info"`
}

// DisplayName is the name shown next to a comment.
func (c Comment) DisplayName() string {
	if c.AuthorInfo.FullName != "" {
		return c.AuthorInfo.FullName
	}
	return "Anonymous"
}
