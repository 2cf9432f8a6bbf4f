package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tags := repository.NewTagRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	ctx := context.Background()
	require.NoError(t, tags.Create(ctx, &domain.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}))
	for _, in := range []domain.Ingredient{
		{Name: "Apple", MeasurementUnit: "pcs"},
		{Name: "apricot", MeasurementUnit: "g"},
		{Name: "Banana", MeasurementUnit: "pcs"},
	} {
		in := in
		require.NoError(t, ingredients.Create(ctx, &in))
	}

	r := gin.New()
	NewHandler(NewService(tags, ingredients)).RegisterRoutes(r.Group("/api"))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestIngredientPrefixSearch(t *testing.T) {
	r := setupRouter(t)

	rr, env := get(t, r, "/api/ingredients?name=AP")
	require.Equal(t, http.StatusOK, rr.Code)

	var items []domain.Ingredient
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Apple", items[0].Name)
	assert.Equal(t, "apricot", items[1].Name)

	_, env = get(t, r, "/api/ingredients")
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 3)
}

func TestTags(t *testing.T) {
	r := setupRouter(t)

	rr, env := get(t, r, "/api/tags")
	require.Equal(t, http.StatusOK, rr.Code)
	var tags []domain.Tag
	require.NoError(t, json.Unmarshal(env.Data, &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].Slug)

	rr, _ = get(t, r, "/api/tags/99")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = get(t, r, "/api/tags/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
