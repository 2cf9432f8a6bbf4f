package recipe

import (
	"time"

	"foodgram/internal/domain"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

type IngredientLine struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeRequest is the full composition of a recipe. Updates replace
// everything, so the same shape serves create and update.
type RecipeRequest struct {
	Tags        []int64          `json:"tags"`
	Ingredients []IngredientLine `json:"ingredients"`
	Name        string           `json:"name" validate:"required,max=200"`
	Text        string           `json:"text" validate:"required"`
	Image       string           `json:"image" validate:"required"`
	CookingTime int              `json:"cooking_time"`
}

type IngredientAmount struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64               `json:"id"`
	Tags             []domain.Tag        `json:"tags"`
	Author           *domain.UserProfile `json:"author"`
	Ingredients      []IngredientAmount  `json:"ingredients"`
	IsFavorited      bool                `json:"is_favorited"`
	IsInShoppingCart bool                `json:"is_in_shopping_cart"`
	Name             string              `json:"name"`
	Image            string              `json:"image"`
	Text             string              `json:"text"`
	CookingTime      int                 `json:"cooking_time"`
	PubDate          time.Time           `json:"pub_date"`
}

// ListFilter mirrors the recipe list query string.
type ListFilter struct {
	AuthorID         *int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

type ListResponse struct {
	Count   int64            `json:"count"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Results []RecipeResponse `json:"results"`
}
