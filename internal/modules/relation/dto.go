package relation

import "foodgram/internal/domain"

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Related is the other side of a freshly created relation: an author profile
// for follows, a recipe summary otherwise.
type Related struct {
	Kind   domain.RelationKind
	Author *domain.AuthorProfile
	Recipe *domain.RecipeSummary
}

func (r *Related) Body() interface{} {
	if r.Kind == domain.RelationFollow {
		return r.Author
	}
	return r.Recipe
}

type SubscriptionsPage struct {
	Count   int64                  `json:"count"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	Results []domain.AuthorProfile `json:"results"`
}
