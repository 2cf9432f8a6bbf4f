package shopping

import (
	"bytes"
	"context"
	"fmt"

	"foodgram/internal/domain"
)

const (
	ListHeader = "Shopping list:"
	ExportName = "shopping_cart.txt"
	ExportMIME = "text/plain; charset=utf-8"
)

type Service struct {
	repo CartRepository
}

func NewService(repo CartRepository) *Service {
	return &Service{repo: repo}
}

// Aggregate sums the ingredient amounts of every recipe in the user's cart,
// one item per (name, unit), ordered by name then unit.
func (s *Service) Aggregate(ctx context.Context, userID int64) ([]domain.ShoppingItem, error) {
	size, err := s.repo.CartSize(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart size: %w", err)
	}
	if size == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.repo.AggregateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate cart: %w", err)
	}
	return items, nil
}

// Render formats items as the downloadable text list.
func Render(items []domain.ShoppingItem) []byte {
	var buf bytes.Buffer
	buf.WriteString(ListHeader)
	buf.WriteByte('\n')
	for _, it := range items {
		fmt.Fprintf(&buf, "%s %d%s\n", it.Name, it.Amount, it.MeasurementUnit)
	}
	return buf.Bytes()
}
