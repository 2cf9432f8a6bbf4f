package shopping

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/recipes/download_shopping_cart", h.Download)
}

// Download serves the aggregated shopping list as a text attachment. An empty
// cart answers 400 with just an error code.
func (h *Handler) Download(c *gin.Context) {
	items, err := h.svc.Aggregate(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			response.Error(c, http.StatusBadRequest, "EMPTY_CART", "")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+ExportName)
	c.Data(http.StatusOK, ExportMIME, Render(items))
}
