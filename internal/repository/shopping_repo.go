package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type ShoppingRepository struct {
	db *gorm.DB
}

func NewShoppingRepository(db *gorm.DB) *ShoppingRepository {
	return &ShoppingRepository{db: db}
}

func (r *ShoppingRepository) CartSize(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserRecipeRelation{}).
		Where("kind = ? AND user_id = ?", domain.RelationShoppingCart, userID).
		Count(&count).Error
	return count, err
}

// AggregateCart sums ingredient amounts over every recipe in the user's cart.
// Lines are grouped by (name, unit) so the same product in different units
// stays separate. Result is ordered by name, then unit.
func (r *ShoppingRepository) AggregateCart(ctx context.Context, userID int64) ([]domain.ShoppingItem, error) {
	items := []domain.ShoppingItem{}
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN user_recipe_relations AS c ON c.recipe_id = ri.recipe_id").
		Where("c.kind = ? AND c.user_id = ?", domain.RelationShoppingCart, userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&items).Error
	return items, err
}
