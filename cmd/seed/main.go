package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/users"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/repository"
)

type seedUser struct {
	email, username, first, last string
}

var seedUsers = []seedUser{
	{"anna@foodgram.local", "anna", "Anna", "Petrova"},
	{"boris@foodgram.local", "boris", "Boris", "Ivanov"},
}

const seedPassword = "foodgram123"

var seedTags = []domain.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

var seedIngredients = []domain.Ingredient{
	{Name: "egg", MeasurementUnit: "pcs"},
	{Name: "milk", MeasurementUnit: "ml"},
	{Name: "flour", MeasurementUnit: "g"},
	{Name: "sugar", MeasurementUnit: "g"},
	{Name: "salt", MeasurementUnit: "g"},
	{Name: "potato", MeasurementUnit: "g"},
	{Name: "butter", MeasurementUnit: "g"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.DatabaseURL, logg)
	if err != nil {
		logg.Fatal("database connection failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logg.Fatal("migration failed", "error", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userSvc := users.NewService(userRepo, relationRepo, tokens)
	recipeSvc := recipe.NewService(recipeRepo, tagRepo, ingredientRepo, relationRepo)

	authors := make([]int64, 0, len(seedUsers))
	for _, su := range seedUsers {
		id, err := ensureUser(ctx, userSvc, userRepo, su)
		if err != nil {
			logg.Fatal("seed user failed", "username", su.username, "error", err)
		}
		authors = append(authors, id)
		token, err := tokens.GenerateToken(id)
		if err != nil {
			logg.Fatal("token failed", "error", err)
		}
		fmt.Printf("%s\t%s\n", su.email, token)
	}

	tagIDs := map[string]int64{}
	for _, t := range seedTags {
		t := t
		if err := tagRepo.Create(ctx, &t); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			logg.Fatal("seed tag failed", "slug", t.Slug, "error", err)
		}
	}
	tags, err := tagRepo.List(ctx)
	if err != nil {
		logg.Fatal("list tags failed", "error", err)
	}
	for _, t := range tags {
		tagIDs[t.Slug] = t.ID
	}

	ingredientIDs := map[string]int64{}
	for _, in := range seedIngredients {
		in := in
		if err := ingredientRepo.Create(ctx, &in); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			logg.Fatal("seed ingredient failed", "name", in.Name, "error", err)
		}
	}
	all, err := ingredientRepo.List(ctx, "")
	if err != nil {
		logg.Fatal("list ingredients failed", "error", err)
	}
	for _, in := range all {
		ingredientIDs[in.Name] = in.ID
	}

	if n, err := recipeRepo.CountByAuthor(ctx, authors[0]); err == nil && n > 0 {
		logg.Info("recipes already seeded", "author_id", authors[0])
		return
	}

	recipes := []struct {
		author int64
		req    recipe.RecipeRequest
	}{
		{authors[0], recipe.RecipeRequest{
			Name:        "Pancakes",
			Text:        "Whisk everything and fry thin.",
			Image:       "data:image/png;base64,iVBORw0KGgo=",
			CookingTime: 30,
			Tags:        []int64{tagIDs["breakfast"]},
			Ingredients: []recipe.IngredientLine{
				{ID: ingredientIDs["egg"], Amount: 2},
				{ID: ingredientIDs["milk"], Amount: 500},
				{ID: ingredientIDs["flour"], Amount: 200},
				{ID: ingredientIDs["sugar"], Amount: 30},
			},
		}},
		{authors[0], recipe.RecipeRequest{
			Name:        "Mashed potatoes",
			Text:        "Boil, drain and mash with butter.",
			Image:       "data:image/png;base64,iVBORw0KGgo=",
			CookingTime: 40,
			Tags:        []int64{tagIDs["lunch"], tagIDs["dinner"]},
			Ingredients: []recipe.IngredientLine{
				{ID: ingredientIDs["potato"], Amount: 800},
				{ID: ingredientIDs["butter"], Amount: 50},
				{ID: ingredientIDs["salt"], Amount: 5},
			},
		}},
		{authors[1], recipe.RecipeRequest{
			Name:        "Omelette",
			Text:        "Beat the eggs with milk and cook covered.",
			Image:       "data:image/png;base64,iVBORw0KGgo=",
			CookingTime: 10,
			Tags:        []int64{tagIDs["breakfast"]},
			Ingredients: []recipe.IngredientLine{
				{ID: ingredientIDs["egg"], Amount: 3},
				{ID: ingredientIDs["milk"], Amount: 100},
				{ID: ingredientIDs["salt"], Amount: 2},
			},
		}},
	}
	for _, r := range recipes {
		out, err := recipeSvc.Compose(ctx, r.req, r.author)
		if err != nil {
			logg.Fatal("seed recipe failed", "name", r.req.Name, "error", err)
		}
		logg.Info("recipe created", "id", out.ID, "name", out.Name)
	}
}

func ensureUser(ctx context.Context, svc *users.Service, repo *repository.UserRepository, su seedUser) (int64, error) {
	p, err := svc.Register(ctx, users.RegisterRequest{
		Email:     su.email,
		Username:  su.username,
		FirstName: su.first,
		LastName:  su.last,
		Password:  seedPassword,
	})
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, users.ErrInvalidInput) {
		return 0, err
	}
	u, err := repo.GetByEmail(ctx, su.email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}
