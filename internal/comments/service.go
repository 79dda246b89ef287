package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// API is the part of the content API the comment subsystem talks to.
type API interface {
	Source
	CreateComment(ctx context.Context, postID string, c models.NewComment) (*models.Comment, error)
}

// ErrRefetch means the comment was stored but the updated list could not be
// loaded.
var ErrRefetch = errors.New("comment stored, list not refreshed")

type Service struct {
	api    API
	hub    *Hub
	policy Policy
}

func NewService(api API, hub *Hub, policy Policy) *Service {
	return &Service{api: api, hub: hub, policy: policy}
}

func (s *Service) Policy() Policy { return s.policy }

func (s *Service) List(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.api.ListComments(ctx, postID)
}

// Submit validates and posts a comment, then re-fetches the list so the
// caller sees its own comment. Live views of the post are refreshed too.
// Invalid comments are rejected before any request is made. A failed
// re-fetch returns ErrRefetch; the comment itself was stored.
func (s *Service) Submit(ctx context.Context, postID string, c models.NewComment) ([]models.Comment, error) {
	c, err := Validate(c, s.policy)
	if err != nil {
		return nil, err
	}
	if _, err := s.api.CreateComment(ctx, postID, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if s.hub != nil {
		s.hub.Refresh(postID)
	}
	list, err := s.api.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefetch, err)
	}
	return list, nil
}
