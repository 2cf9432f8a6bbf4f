package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodgram/internal/middleware"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/feed"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/relation"
	"foodgram/internal/modules/shopping"
	"foodgram/internal/modules/users"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/repository"
)

type Deps struct {
	DB          *gorm.DB
	JWT         *jwt.Service
	Log         *logger.Logger
	CORSOrigins []string
}

// NewRouter wires repositories, services and handlers under /api.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	userRepo := repository.NewUserRepository(d.DB)
	tagRepo := repository.NewTagRepository(d.DB)
	ingredientRepo := repository.NewIngredientRepository(d.DB)
	recipeRepo := repository.NewRecipeRepository(d.DB)
	relationRepo := repository.NewRelationRepository(d.DB)
	shoppingRepo := repository.NewShoppingRepository(d.DB)

	usersHandler := users.NewHandler(users.NewService(userRepo, relationRepo, d.JWT))
	catalogHandler := catalog.NewHandler(catalog.NewService(tagRepo, ingredientRepo))
	hub := feed.NewHub()
	feedHandler := feed.NewHandler(hub, d.JWT, log)
	recipeSvc := recipe.NewService(recipeRepo, tagRepo, ingredientRepo, relationRepo).
		WithPublisher(feed.NewService(relationRepo, hub, log))
	recipeHandler := recipe.NewHandler(recipeSvc)
	relationHandler := relation.NewHandler(relation.NewService(relationRepo, userRepo, recipeRepo))
	shoppingHandler := shopping.NewHandler(shopping.NewService(shoppingRepo))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.CORS(d.CORSOrigins),
		middleware.RequestLogger(log),
		middleware.ErrorLogger(log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		public := api.Group("")
		public.Use(middleware.OptionalAuth(d.JWT))

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))

		usersHandler.RegisterRoutes(public, protected)
		catalogHandler.RegisterRoutes(public)
		recipeHandler.RegisterRoutes(public, protected)
		relationHandler.RegisterRoutes(public, protected)
		shoppingHandler.RegisterRoutes(protected)
		feedHandler.RegisterRoutes(public)
	}

	return r
}
