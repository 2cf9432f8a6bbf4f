package shopping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain"
)

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) CartSize(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCartRepo) AggregateCart(ctx context.Context, userID int64) ([]domain.ShoppingItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ShoppingItem), args.Error(1)
}

func TestAggregate_EmptyCart(t *testing.T) {
	repo := new(mockCartRepo)
	svc := NewService(repo)
	ctx := context.Background()
	repo.On("CartSize", ctx, int64(1)).Return(int64(0), nil)

	items, err := svc.Aggregate(ctx, 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, items)
	repo.AssertNotCalled(t, "AggregateCart", mock.Anything, mock.Anything)
}

func TestAggregate_ReturnsItems(t *testing.T) {
	repo := new(mockCartRepo)
	svc := NewService(repo)
	ctx := context.Background()
	want := []domain.ShoppingItem{{Name: "Salt", MeasurementUnit: "g", Amount: 25}}
	repo.On("CartSize", ctx, int64(1)).Return(int64(2), nil)
	repo.On("AggregateCart", ctx, int64(1)).Return(want, nil)

	items, err := svc.Aggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, items)
}

func TestAggregate_StoreError(t *testing.T) {
	repo := new(mockCartRepo)
	svc := NewService(repo)
	boom := errors.New("boom")
	repo.On("CartSize", mock.Anything, int64(1)).Return(int64(0), boom)

	_, err := svc.Aggregate(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrEmptyCart)
}

func TestRender(t *testing.T) {
	out := Render([]domain.ShoppingItem{
		{Name: "Salt", MeasurementUnit: "g", Amount: 25},
		{Name: "Water", MeasurementUnit: "ml", Amount: 500},
	})
	assert.Equal(t, "Shopping list:\nSalt 25g\nWater 500ml\n", string(out))

	assert.Equal(t, "Shopping list:\n", string(Render(nil)))
}

func setupRouter(repo CartRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Next()
	})
	NewHandler(NewService(repo)).RegisterRoutes(r.Group("/api"))
	return r
}

func TestDownload(t *testing.T) {
	repo := new(mockCartRepo)
	repo.On("CartSize", mock.Anything, int64(1)).Return(int64(1), nil)
	repo.On("AggregateCart", mock.Anything, int64(1)).
		Return([]domain.ShoppingItem{{Name: "Salt", MeasurementUnit: "g", Amount: 25}}, nil)

	rr := httptest.NewRecorder()
	setupRouter(repo).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=shopping_cart.txt", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, ExportMIME, rr.Header().Get("Content-Type"))
	assert.Equal(t, "Shopping list:\nSalt 25g\n", rr.Body.String())
}

func TestDownload_EmptyCart(t *testing.T) {
	repo := new(mockCartRepo)
	repo.On("CartSize", mock.Anything, int64(1)).Return(int64(0), nil)

	rr := httptest.NewRecorder()
	setupRouter(repo).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMPTY_CART")
}
