package relation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// Unlimited is the recipes limit meaning "every recipe of the author".
const Unlimited = -1

type Service struct {
	relations RelationRepository
	users     UserRepository
	recipes   RecipeRepository
}

func NewService(relations RelationRepository, users UserRepository, recipes RecipeRepository) *Service {
	return &Service{relations: relations, users: users, recipes: recipes}
}

// ParseRecipesLimit reads the recipes_limit query value. Absent, non-numeric
// and negative values mean no limit.
func ParseRecipesLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return Unlimited
	}
	return n
}

// Create relates subjectID to objectID. For follows objectID is the author,
// for favorites and cart entries it is the recipe. Creating an existing pair
// fails; it is never a no-op. recipesLimit only shapes the follow result.
func (s *Service) Create(ctx context.Context, kind domain.RelationKind, subjectID, objectID int64, recipesLimit int) (*Related, error) {
	switch {
	case kind == domain.RelationFollow:
		return s.follow(ctx, subjectID, objectID, recipesLimit)
	case kind.TargetsRecipe():
		return s.markRecipe(ctx, kind, subjectID, objectID)
	}
	return nil, ErrInvalidKind
}

// Delete removes exactly one relation row, or fails with ErrNotFound.
func (s *Service) Delete(ctx context.Context, kind domain.RelationKind, subjectID, objectID int64) error {
	var err error
	switch {
	case kind == domain.RelationFollow:
		err = s.relations.DeleteFollow(ctx, subjectID, objectID)
	case kind.TargetsRecipe():
		err = s.relations.RemoveRecipe(ctx, kind, subjectID, objectID)
	default:
		return ErrInvalidKind
	}

	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

func (s *Service) follow(ctx context.Context, followerID, authorID int64, recipesLimit int) (*Related, error) {
	if followerID == authorID {
		return nil, ErrSelfReference
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	exists, err := s.relations.FollowExists(ctx, followerID, authorID)
	if err != nil {
		return nil, fmt.Errorf("check follow: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	// the unique index settles concurrent creates that both passed the check
	if err := s.relations.CreateFollow(ctx, followerID, authorID); err != nil {
		return nil, mapCreateError(err)
	}

	profile, err := s.authorProfile(ctx, author, true, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &Related{Kind: domain.RelationFollow, Author: profile}, nil
}

func (s *Service) markRecipe(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (*Related, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	exists, err := s.relations.RecipeRelationExists(ctx, kind, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", kind, err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	if err := s.relations.AddRecipe(ctx, kind, userID, recipeID); err != nil {
		return nil, mapCreateError(err)
	}

	summary := domain.NewRecipeSummary(rec)
	return &Related{Kind: kind, Recipe: &summary}, nil
}

// Profile returns an author's public profile as seen by viewerID with at most
// recipesLimit recipe summaries.
func (s *Service) Profile(ctx context.Context, authorID, viewerID int64, recipesLimit int) (*domain.AuthorProfile, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	subscribed := false
	if viewerID > 0 && viewerID != authorID {
		subscribed, err = s.relations.FollowExists(ctx, viewerID, authorID)
		if err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}
	return s.authorProfile(ctx, author, subscribed, recipesLimit)
}

// Subscriptions pages through the authors viewerID follows.
func (s *Service) Subscriptions(ctx context.Context, viewerID int64, page, limit, recipesLimit int) (*SubscriptionsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	authors, total, err := s.relations.ListFollowedAuthors(ctx, viewerID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	results := make([]domain.AuthorProfile, 0, len(authors))
	for i := range authors {
		p, err := s.authorProfile(ctx, &authors[i], true, recipesLimit)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}

	return &SubscriptionsPage{Count: total, Page: page, Limit: limit, Results: results}, nil
}

func (s *Service) authorProfile(ctx context.Context, author *domain.User, subscribed bool, recipesLimit int) (*domain.AuthorProfile, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, domain.NewRecipeSummary(&recipes[i]))
	}

	return &domain.AuthorProfile{
		UserProfile:  domain.NewUserProfile(author, subscribed),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, repository.ErrConstraint):
		return ErrConflict
	}
	return fmt.Errorf("create relation: %w", err)
}
