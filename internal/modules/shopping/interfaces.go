package shopping

import (
	"context"

	"foodgram/internal/domain"
)

type CartRepository interface {
	CartSize(ctx context.Context, userID int64) (int64, error)
	AggregateCart(ctx context.Context, userID int64) ([]domain.ShoppingItem, error)
}
