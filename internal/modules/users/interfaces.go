package users

import (
	"context"

	"foodgram/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type FollowReader interface {
	FollowedAuthorIDs(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}
