package feed

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/logger"
)

type FollowerSource interface {
	FollowerIDs(ctx context.Context, authorID int64) ([]int64, error)
}

// Service fans new recipes out to the author's followers that are online.
type Service struct {
	followers FollowerSource
	hub       *Hub
	log       *logger.Logger
}

func NewService(followers FollowerSource, hub *Hub, log *logger.Logger) *Service {
	return &Service{followers: followers, hub: hub, log: log}
}

func (s *Service) RecipePublished(ctx context.Context, authorID int64, summary domain.RecipeSummary) {
	ids, err := s.followers.FollowerIDs(ctx, authorID)
	if err != nil {
		s.log.Warn("feed: load followers", "author_id", authorID, "error", err)
		return
	}

	event := &Event{Type: EventNewRecipe, AuthorID: authorID, Payload: summary}
	delivered := 0
	for _, id := range ids {
		delivered += s.hub.Send(id, event)
	}
	s.log.Debug("feed: recipe announced", "author_id", authorID, "recipe_id", summary.ID, "followers", len(ids), "delivered", delivered)
}
