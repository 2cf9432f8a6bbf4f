package relation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/users/:id/profile", h.Profile)

	protected.GET("/users/subscriptions", h.Subscriptions)
	protected.POST("/users/:id/subscribe", h.create(domain.RelationFollow))
	protected.DELETE("/users/:id/subscribe", h.delete(domain.RelationFollow))

	protected.POST("/recipes/:id/favorite", h.create(domain.RelationFavorite))
	protected.DELETE("/recipes/:id/favorite", h.delete(domain.RelationFavorite))
	protected.POST("/recipes/:id/shopping_cart", h.create(domain.RelationShoppingCart))
	protected.DELETE("/recipes/:id/shopping_cart", h.delete(domain.RelationShoppingCart))
}

func (h *Handler) create(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		objectID, ok := parseID(c)
		if !ok {
			return
		}

		related, err := h.svc.Create(
			c.Request.Context(),
			kind,
			c.GetInt64("user_id"),
			objectID,
			ParseRecipesLimit(c.Query("recipes_limit")),
		)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, related.Body())
	}
}

func (h *Handler) delete(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		objectID, ok := parseID(c)
		if !ok {
			return
		}

		if err := h.svc.Delete(c.Request.Context(), kind, c.GetInt64("user_id"), objectID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) Subscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.svc.Subscriptions(
		c.Request.Context(),
		c.GetInt64("user_id"),
		page,
		limit,
		ParseRecipesLimit(c.Query("recipes_limit")),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Profile is an author with their recipes as seen by the (possibly anonymous) viewer.
func (h *Handler) Profile(c *gin.Context) {
	authorID, ok := parseID(c)
	if !ok {
		return
	}

	out, err := h.svc.Profile(
		c.Request.Context(),
		authorID,
		c.GetInt64("user_id"),
		ParseRecipesLimit(c.Query("recipes_limit")),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

// writeError maps relation failures. A missing relation on delete is a 400,
// not a 404.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSelfReference):
		response.Error(c, http.StatusBadRequest, "SELF_REFERENCE", "You cannot subscribe to yourself")
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", "Relation already exists")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusBadRequest, "NOT_FOUND", "Relation does not exist")
	case errors.Is(err, ErrTargetNotFound):
		response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Target not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Relation conflicts with existing data")
	case errors.Is(err, ErrInvalidKind):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown relation kind")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
