package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type RecipeRepository interface {
	CreateWithComposition(ctx context.Context, rec *domain.Recipe, tagIDs []int64, lines []domain.RecipeIngredient) error
	ReplaceComposition(ctx context.Context, rec *domain.Recipe, tagIDs []int64, lines []domain.RecipeIngredient) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
	Delete(ctx context.Context, id int64) error
}

type TagRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)
}

type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
}

// RelationReader answers the viewer-relative flags of a recipe.
type RelationReader interface {
	MarkedRecipeIDs(ctx context.Context, kind domain.RelationKind, userID int64, recipeIDs []int64) (map[int64]bool, error)
	FollowedAuthorIDs(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
}

// Publisher is told about every newly composed recipe.
type Publisher interface {
	RecipePublished(ctx context.Context, authorID int64, summary domain.RecipeSummary)
}
