package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
)

type mockFollowers struct {
	mock.Mock
}

func (m *mockFollowers) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]int64), args.Error(1)
}

func newFeedServer(t *testing.T, hub *Hub, j *jwt.Service) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(hub, j, logger.Nop()).RegisterRoutes(router.Group("/api"))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/feed?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRecipePublished_ReachesOnlineFollowers(t *testing.T) {
	j := jwt.New("feed-secret", time.Hour)
	hub := NewHub()
	srv := newFeedServer(t, hub, j)

	token, err := j.GenerateToken(7)
	require.NoError(t, err)
	conn := dial(t, srv, token)
	require.Eventually(t, func() bool { return hub.Online(7) }, time.Second, 10*time.Millisecond)

	followers := new(mockFollowers)
	followers.On("FollowerIDs", mock.Anything, int64(3)).Return([]int64{7, 8}, nil)
	svc := NewService(followers, hub, logger.Nop())

	svc.RecipePublished(context.Background(), 3, domain.RecipeSummary{ID: 11, Name: "Soup", CookingTime: 20})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Type     string               `json:"type"`
		AuthorID int64                `json:"author_id"`
		Payload  domain.RecipeSummary `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventNewRecipe, got.Type)
	assert.EqualValues(t, 3, got.AuthorID)
	assert.EqualValues(t, 11, got.Payload.ID)
	assert.Equal(t, "Soup", got.Payload.Name)
	followers.AssertExpectations(t)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	j := jwt.New("feed-secret", time.Hour)
	hub := NewHub()
	srv := newFeedServer(t, hub, j)

	token, err := j.GenerateToken(5)
	require.NoError(t, err)
	conn := dial(t, srv, token)
	require.Eventually(t, func() bool { return hub.Online(5) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.Online(5) }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.Send(5, &Event{Type: EventNewRecipe}))
}

func TestConnect_RejectsBadToken(t *testing.T) {
	srv := newFeedServer(t, NewHub(), jwt.New("feed-secret", time.Hour))

	resp, err := http.Get(srv.URL + "/api/ws/feed")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/ws/feed?token=broken")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
