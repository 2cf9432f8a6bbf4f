package catalog

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

var (
	ErrTagNotFound        = errors.New("tag_not_found")
	ErrIngredientNotFound = errors.New("ingredient_not_found")
)

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}

type IngredientRepository interface {
	List(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// Service exposes the read-only tag and ingredient reference data.
type Service struct {
	tags        TagRepository
	ingredients IngredientRepository
}

func NewService(tags TagRepository, ingredients IngredientRepository) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

/* ---------- TAGS ---------- */

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	return t, err
}

/* ---------- INGREDIENTS ---------- */

// SearchIngredients lists ingredients whose name starts with prefix,
// ignoring case. An empty prefix lists everything.
func (s *Service) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	out, err := s.ingredients.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Ingredient{}
	}
	return out, nil
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	i, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return i, err
}
