package domain

import "time"

// Bounds for recipe ingredient amounts and cooking time (minutes).
const (
	MinAmount      = 1
	MaxAmount      = 32000
	MaxCookingTime = 1440
)

// Tag groups recipes (breakfast, dinner, ...). Every column is unique.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:7;not null;uniqueIndex"`
	Slug  string `json:"slug" gorm:"size:200;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient is a product with its measurement unit. The (name, unit) pair is unique.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:32;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Recipe is owned by its author. Deleting the author keeps the recipe and
// clears AuthorID.
type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    *int64    `json:"author_id" gorm:"index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	Image       string    `json:"image" gorm:"not null"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	Author      *User              `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Tags        []Tag              `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeOrder is the default listing order: newest first, then by name.
const RecipeOrder = "recipes.pub_date DESC, recipes.name ASC"

// RecipeTag is the join row between a recipe and one of its tags.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient is one ingredient line of a recipe. A recipe lists an
// ingredient at most once.
type RecipeIngredient struct {
	ID           int64       `json:"-" gorm:"primaryKey"`
	RecipeID     int64       `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64       `json:"id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int         `json:"amount" gorm:"not null"`
	Ingredient   *Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
