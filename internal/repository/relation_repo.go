package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RelationRepository persists follows, favorites and shopping cart entries.
type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

// CreateFollow returns ErrDuplicate when the pair already exists and
// ErrConstraint when follower and author are the same user.
func (r *RelationRepository) CreateFollow(ctx context.Context, followerID, authorID int64) error {
	f := &domain.Follow{FollowerID: followerID, AuthorID: authorID}
	return translateError(r.db.WithContext(ctx).Create(f).Error)
}

func (r *RelationRepository) DeleteFollow(ctx context.Context, followerID, authorID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RelationRepository) FollowExists(ctx context.Context, followerID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowedAuthorIDs returns which of authorIDs the follower is subscribed to.
func (r *RelationRepository) FollowedAuthorIDs(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool)
	if followerID == 0 || len(authorIDs) == 0 {
		return set, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// FollowerIDs lists everyone subscribed to the author.
func (r *RelationRepository) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("author_id = ?", authorID).
		Order("follower_id ASC").
		Pluck("follower_id", &ids).Error
	return ids, err
}

// ListFollowedAuthors returns the authors the follower is subscribed to,
// ordered by username, plus their total number.
func (r *RelationRepository) ListFollowedAuthors(ctx context.Context, followerID int64, limit, offset int) ([]domain.User, int64, error) {
	followed := r.db.Model(&domain.Follow{}).
		Select("author_id").
		Where("follower_id = ?", followerID)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id IN (?)", followed).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var users []domain.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// AddRecipe marks a recipe as favorite or puts it into the cart depending on kind.
func (r *RelationRepository) AddRecipe(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	rel := &domain.UserRecipeRelation{Kind: kind, UserID: userID, RecipeID: recipeID}
	return translateError(r.db.WithContext(ctx).Create(rel).Error)
}

func (r *RelationRepository) RemoveRecipe(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	res := r.db.WithContext(ctx).
		Where("kind = ? AND user_id = ? AND recipe_id = ?", kind, userID, recipeID).
		Delete(&domain.UserRecipeRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RelationRepository) RecipeRelationExists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserRecipeRelation{}).
		Where("kind = ? AND user_id = ? AND recipe_id = ?", kind, userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// MarkedRecipeIDs returns which of recipeIDs the user related to with kind.
func (r *RelationRepository) MarkedRecipeIDs(ctx context.Context, kind domain.RelationKind, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return set, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserRecipeRelation{}).
		Where("kind = ? AND user_id = ? AND recipe_id IN ?", kind, userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
