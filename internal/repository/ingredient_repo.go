package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

func (r *IngredientRepository) Create(ctx context.Context, i *domain.Ingredient) error {
	i.Name = strings.TrimSpace(i.Name)
	i.MeasurementUnit = strings.TrimSpace(i.MeasurementUnit)
	return translateError(r.db.WithContext(ctx).Create(i).Error)
}

// List returns ingredients ordered by name, optionally only those whose name
// starts with namePrefix (case-insensitive).
func (r *IngredientRepository) List(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})
	if p := strings.TrimSpace(namePrefix); p != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(p))+"%")
	}

	var out []domain.Ingredient
	err := q.Order("name ASC, measurement_unit ASC").Find(&out).Error
	return out, err
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &i, nil
}

// GetByIDs returns the ingredients that exist among ids.
func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	if len(ids) == 0 {
		return []domain.Ingredient{}, nil
	}
	var out []domain.Ingredient
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error
	return out, err
}

// Delete removes an ingredient together with every recipe line that uses it.
func (r *IngredientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Ingredient{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
