package domain

import "time"

// RelationKind tags the three user relations the API manages.
type RelationKind string

const (
	RelationFollow       RelationKind = "follow"
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFollow, RelationFavorite, RelationShoppingCart:
		return true
	}
	return false
}

// TargetsRecipe reports whether the relation object is a recipe (as opposed to an author).
func (k RelationKind) TargetsRecipe() bool {
	return k == RelationFavorite || k == RelationShoppingCart
}

// Follow is a subscription of Follower to the recipes of Author.
type Follow struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	FollowerID int64     `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_author;check:chk_follows_not_self,follower_id <> author_id"`
	AuthorID   int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_follower_author"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Follower *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Author   *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string {
	return "follows"
}

// UserRecipeRelation stores favorites and shopping cart entries. Kind tells them apart.
type UserRecipeRelation struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	Kind      RelationKind `json:"kind" gorm:"size:32;not null;uniqueIndex:idx_relation_kind_user_recipe"`
	UserID    int64        `json:"user_id" gorm:"not null;index;uniqueIndex:idx_relation_kind_user_recipe"`
	RecipeID  int64        `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_relation_kind_user_recipe"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}
