package relation

import (
	"context"

	"foodgram/internal/domain"
)

type RelationRepository interface {
	CreateFollow(ctx context.Context, followerID, authorID int64) error
	DeleteFollow(ctx context.Context, followerID, authorID int64) error
	FollowExists(ctx context.Context, followerID, authorID int64) (bool, error)
	ListFollowedAuthors(ctx context.Context, followerID int64, limit, offset int) ([]domain.User, int64, error)

	AddRecipe(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error
	RemoveRecipe(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error
	RecipeRelationExists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type RecipeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}
