package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	hub *Hub
	jwt *jwt.Service
	log *logger.Logger
}

func NewHandler(hub *Hub, j *jwt.Service, log *logger.Logger) *Handler {
	return &Handler{hub: hub, jwt: j, log: log}
}

// RegisterRoutes mounts the feed socket. Browsers cannot set headers on a
// websocket handshake, so the token may also come as ?token=.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/ws/feed", h.Connect)
}

func (h *Handler) Connect(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		token := c.Query("token")
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
			return
		}
		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		userID = claims.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("feed: upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.log.Debug("feed: connected", "user_id", userID)
	h.hub.Serve(conn, userID)
	h.log.Debug("feed: disconnected", "user_id", userID)
}
