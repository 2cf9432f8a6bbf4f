package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

type Service struct {
	recipes     RecipeRepository
	tags        TagRepository
	ingredients IngredientRepository
	relations   RelationReader
	publisher   Publisher
}

func NewService(recipes RecipeRepository, tags TagRepository, ingredients IngredientRepository, relations RelationReader) *Service {
	return &Service{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		relations:   relations,
	}
}

// WithPublisher makes Compose announce new recipes.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// Compose validates a recipe and stores it with its full composition on
// behalf of authorID. Nothing is written when validation fails.
func (s *Service) Compose(ctx context.Context, req RecipeRequest, authorID int64) (*RecipeResponse, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	rec := &domain.Recipe{
		AuthorID:    &authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
	}
	if err := s.recipes.CreateWithComposition(ctx, rec, req.Tags, toLines(req.Ingredients)); err != nil {
		return nil, mapWriteError(err)
	}

	if s.publisher != nil {
		s.publisher.RecipePublished(ctx, authorID, domain.NewRecipeSummary(rec))
	}
	return s.Get(ctx, rec.ID, authorID)
}

// Replace swaps the whole composition of an existing recipe. Only the author
// may do that.
func (s *Service) Replace(ctx context.Context, recipeID int64, req RecipeRequest, actorID int64) (*RecipeResponse, error) {
	if _, err := s.ownedRecipe(ctx, recipeID, actorID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	rec := &domain.Recipe{
		ID:          recipeID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
	}
	if err := s.recipes.ReplaceComposition(ctx, rec, req.Tags, toLines(req.Ingredients)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, mapWriteError(err)
	}

	return s.Get(ctx, recipeID, actorID)
}

func (s *Service) Delete(ctx context.Context, recipeID, actorID int64) error {
	if _, err := s.ownedRecipe(ctx, recipeID, actorID); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// Get returns a recipe as seen by viewerID (0 for anonymous).
func (s *Service) Get(ctx context.Context, recipeID, viewerID int64) (*RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	out, err := s.present(ctx, []domain.Recipe{*rec}, viewerID)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) List(ctx context.Context, f ListFilter, viewerID int64) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	rf := repository.RecipeFilter{
		AuthorID: f.AuthorID,
		TagSlugs: f.TagSlugs,
		Limit:    f.Limit,
		Offset:   (f.Page - 1) * f.Limit,
	}
	// viewer-relative filters mean nothing to anonymous callers
	if viewerID > 0 {
		if f.IsFavorited {
			rf.FavoritedBy = viewerID
		}
		if f.IsInShoppingCart {
			rf.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, rf)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	results, err := s.present(ctx, recipes, viewerID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Count:   total,
		Page:    f.Page,
		Limit:   f.Limit,
		Results: results,
	}, nil
}

func (s *Service) ownedRecipe(ctx context.Context, recipeID, actorID int64) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if rec.AuthorID == nil || *rec.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return rec, nil
}

func (s *Service) validate(ctx context.Context, req RecipeRequest) error {
	verr := &ValidationError{}

	for field, tag := range validator.Validate(req) {
		verr.add(field, tagMessage(tag))
	}

	if req.CookingTime < domain.MinAmount || req.CookingTime > domain.MaxCookingTime {
		verr.add("cooking_time", fmt.Sprintf("must be between %d and %d", domain.MinAmount, domain.MaxCookingTime))
	}

	if len(req.Tags) == 0 {
		verr.add("tags", "at least one tag is required")
	} else if dup, ok := firstDuplicate(req.Tags); ok {
		verr.add("tags", fmt.Sprintf("tag %d is listed more than once", dup))
	}

	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for i, line := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, line.ID)
		if line.Amount < domain.MinAmount || line.Amount > domain.MaxAmount {
			verr.add(fmt.Sprintf("ingredients[%d].amount", i),
				fmt.Sprintf("must be between %d and %d", domain.MinAmount, domain.MaxAmount))
		}
	}
	if len(req.Ingredients) == 0 {
		verr.add("ingredients", "at least one ingredient is required")
	} else if dup, ok := firstDuplicate(ingredientIDs); ok {
		verr.add("ingredients", fmt.Sprintf("ingredient %d is listed more than once", dup))
	}

	// shape errors first; references are only resolved for a well-formed request
	if err := verr.orNil(); err != nil {
		return err
	}

	tags, err := s.tags.GetByIDs(ctx, req.Tags)
	if err != nil {
		return fmt.Errorf("resolve tags: %w", err)
	}
	if missing, ok := firstMissing(req.Tags, tagIDs(tags)); ok {
		verr.add("tags", fmt.Sprintf("tag %d does not exist", missing))
	}

	ingredients, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("resolve ingredients: %w", err)
	}
	if missing, ok := firstMissing(ingredientIDs, ingredientIDsOf(ingredients)); ok {
		verr.add("ingredients", fmt.Sprintf("ingredient %d does not exist", missing))
	}

	return verr.orNil()
}

// present converts stored recipes and fills in the viewer-relative flags with
// one lookup per flag for the whole batch.
func (s *Service) present(ctx context.Context, recipes []domain.Recipe, viewerID int64) ([]RecipeResponse, error) {
	out := make([]RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
	}

	favorited, err := s.relations.MarkedRecipeIDs(ctx, domain.RelationFavorite, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("favorite flags: %w", err)
	}
	inCart, err := s.relations.MarkedRecipeIDs(ctx, domain.RelationShoppingCart, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("cart flags: %w", err)
	}
	followed, err := s.relations.FollowedAuthorIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("subscription flags: %w", err)
	}

	for i := range recipes {
		r := &recipes[i]
		resp := RecipeResponse{
			ID:               r.ID,
			Tags:             r.Tags,
			Ingredients:      make([]IngredientAmount, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if resp.Tags == nil {
			resp.Tags = []domain.Tag{}
		}
		if r.Author != nil {
			p := domain.NewUserProfile(r.Author, followed[r.Author.ID])
			resp.Author = &p
		}
		for _, line := range r.Ingredients {
			amount := IngredientAmount{ID: line.IngredientID, Amount: line.Amount}
			if line.Ingredient != nil {
				amount.Name = line.Ingredient.Name
				amount.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			resp.Ingredients = append(resp.Ingredients, amount)
		}
		out = append(out, resp)
	}
	return out, nil
}

func mapWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrConstraint) {
		return ErrConflict
	}
	return fmt.Errorf("write recipe: %w", err)
}

func toLines(in []IngredientLine) []domain.RecipeIngredient {
	lines := make([]domain.RecipeIngredient, 0, len(in))
	for _, l := range in {
		lines = append(lines, domain.RecipeIngredient{IngredientID: l.ID, Amount: l.Amount})
	}
	return lines
}

func firstDuplicate(ids []int64) (int64, bool) {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

func firstMissing(want []int64, have map[int64]struct{}) (int64, bool) {
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}
	return 0, false
}

func tagIDs(tags []domain.Tag) map[int64]struct{} {
	set := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		set[t.ID] = struct{}{}
	}
	return set
}

func ingredientIDsOf(ingredients []domain.Ingredient) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ingredients))
	for _, i := range ingredients {
		set[i.ID] = struct{}{}
	}
	return set
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "max":
		return "value is too long"
	}
	return "invalid value"
}
