package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows recipe listings. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    *int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// CreateWithComposition inserts the recipe, its tag links and its ingredient
// lines in a single transaction.
func (r *RecipeRepository) CreateWithComposition(ctx context.Context, rec *domain.Recipe, tagIDs []int64, lines []domain.RecipeIngredient) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec.ID = 0
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if err := setTags(tx, rec.ID, tagIDs); err != nil {
			return err
		}
		return insertLines(tx, rec.ID, lines)
	})
	return translateError(err)
}

// ReplaceComposition swaps the full ingredient line set and tag set of an
// existing recipe and updates its scalar fields. Either everything is written
// or nothing is.
func (r *RecipeRepository) ReplaceComposition(ctx context.Context, rec *domain.Recipe, tagIDs []int64, lines []domain.RecipeIngredient) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, rec.ID, lines); err != nil {
			return err
		}

		res := tx.Model(&domain.Recipe{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"name":         rec.Name,
				"text":         rec.Text,
				"cooking_time": rec.CookingTime,
				"image":        rec.Image,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return setTags(tx, rec.ID, tagIDs)
	})
	return translateError(err)
}

// setTags makes tagIDs the exact tag set of the recipe. Tags themselves are
// never deleted, only the links.
func setTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]domain.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Create(&links).Error
}

func insertLines(tx *gorm.DB, recipeID int64, lines []domain.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]domain.RecipeIngredient, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: l.IngredientID,
			Amount:       l.Amount,
		})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func preloadComposition(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := r.db.WithContext(ctx).
		Scopes(preloadComposition).
		First(&rec, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &rec, nil
}

// Exists is a cheap existence check that skips the preloads.
func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *RecipeRepository) filterScope(f RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.AuthorID != nil {
			q = q.Where("recipes.author_id = ?", *f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			sub := r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("recipes.id IN (?)", sub)
		}
		if f.FavoritedBy > 0 {
			q = q.Where("recipes.id IN (?)", r.relationSubquery(domain.RelationFavorite, f.FavoritedBy))
		}
		if f.InCartOf > 0 {
			q = q.Where("recipes.id IN (?)", r.relationSubquery(domain.RelationShoppingCart, f.InCartOf))
		}
		return q
	}
}

func (r *RecipeRepository) relationSubquery(kind domain.RelationKind, userID int64) *gorm.DB {
	return r.db.Model(&domain.UserRecipeRelation{}).
		Select("recipe_id").
		Where("kind = ? AND user_id = ?", kind, userID)
}

// List returns one page of recipes in the default order plus the total number
// of recipes matching the filter.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Scopes(r.filterScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Scopes(r.filterScope(f), preloadComposition).
		Order(domain.RecipeOrder)
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's recipes in the default order. A negative
// limit returns all of them.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order(domain.RecipeOrder)
	if limit >= 0 {
		q = q.Limit(limit)
	}

	recipes := []domain.Recipe{}
	if limit == 0 {
		return recipes, nil
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// Delete removes the recipe with its lines, tag links, favorites and cart entries.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.UserRecipeRelation{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
