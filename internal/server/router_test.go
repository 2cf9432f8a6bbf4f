package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router := NewRouter(Deps{
		DB:  db,
		JWT: jwt.New("test-secret", time.Hour),
	})
	return &testSuite{router: router, db: db}
}

func (s *testSuite) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var resp testResponse
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	}
	return rr, resp
}

// signup registers a user through the API and logs in.
func (s *testSuite) signup(t *testing.T, username string) (int64, string) {
	t.Helper()
	rr, resp := s.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var profile domain.UserProfile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))

	rr, resp = s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var tok struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tok))
	return profile.ID, tok.AuthToken
}

func (s *testSuite) seedCatalog(t *testing.T) (tagID int64, salt, pepper *domain.Ingredient) {
	t.Helper()
	ctx := context.Background()
	tag := &domain.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}
	require.NoError(t, repository.NewTagRepository(s.db).Create(ctx, tag))

	ingredients := repository.NewIngredientRepository(s.db)
	salt = &domain.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	pepper = &domain.Ingredient{Name: "Pepper", MeasurementUnit: "g"}
	require.NoError(t, ingredients.Create(ctx, salt))
	require.NoError(t, ingredients.Create(ctx, pepper))
	return tag.ID, salt, pepper
}

func recipeBody(name string, tagID int64, lines ...map[string]int64) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix and serve",
		"image":        "dish.png",
		"cooking_time": 15,
		"tags":         []int64{tagID},
		"ingredients":  lines,
	}
}

func ln(id int64, amount int64) map[string]int64 {
	return map[string]int64{"id": id, "amount": amount}
}

type recipeOut struct {
	ID          int64 `json:"id"`
	IsFavorited bool  `json:"is_favorited"`
	InCart      bool  `json:"is_in_shopping_cart"`
	Ingredients []struct {
		ID     int64 `json:"id"`
		Amount int   `json:"amount"`
	} `json:"ingredients"`
}

func (s *testSuite) compose(t *testing.T, token string, body map[string]interface{}) recipeOut {
	t.Helper()
	rr, resp := s.do(t, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out recipeOut
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func TestShoppingListScenario(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "cook")
	tagID, salt, _ := s.seedCatalog(t)

	a := s.compose(t, token, recipeBody("A", tagID, ln(salt.ID, 10)))
	b := s.compose(t, token, recipeBody("B", tagID, ln(salt.ID, 15)))

	rr, resp := s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)

	for _, id := range []int64{b.ID, a.ID} {
		rr, _ = s.do(t, http.MethodPost, "/api/recipes/"+itoa(id)+"/shopping_cart", token, nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr, _ = s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=shopping_cart.txt", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list:\nSalt 25g\n", rr.Body.String())

	rr, resp = s.do(t, http.MethodGet, "/api/recipes/"+itoa(a.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got recipeOut
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.True(t, got.InCart)
	assert.False(t, got.IsFavorited)

	rr, _ = s.do(t, http.MethodPost, "/api/recipes/"+itoa(a.ID)+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = s.do(t, http.MethodDelete, "/api/recipes/"+itoa(a.ID)+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr, _ = s.do(t, http.MethodDelete, "/api/recipes/"+itoa(a.ID)+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDuplicateIngredientWritesNothing(t *testing.T) {
	s := setupSuite(t)
	_, token := s.signup(t, "cook")
	tagID, salt, _ := s.seedCatalog(t)

	rr, resp := s.do(t, http.MethodPost, "/api/recipes", token, recipeBody("Dup", tagID, ln(salt.ID, 1), ln(salt.ID, 2)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "ingredients")

	var recipes, lines int64
	require.NoError(t, s.db.Model(&domain.Recipe{}).Count(&recipes).Error)
	require.NoError(t, s.db.Model(&domain.RecipeIngredient{}).Count(&lines).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, lines)

	rr, _ = s.do(t, http.MethodPost, "/api/recipes", "", recipeBody("Anon", tagID, ln(salt.ID, 1)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReplaceComposition(t *testing.T) {
	s := setupSuite(t)
	_, author := s.signup(t, "author")
	_, other := s.signup(t, "other")
	tagID, salt, pepper := s.seedCatalog(t)

	rec := s.compose(t, author, recipeBody("Soup", tagID, ln(salt.ID, 5)))
	path := "/api/recipes/" + itoa(rec.ID)

	rr, _ := s.do(t, http.MethodPatch, path, other, recipeBody("Hijack", tagID, ln(pepper.ID, 3)))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, resp := s.do(t, http.MethodPatch, path, author, recipeBody("Soup", tagID, ln(pepper.ID, 3)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out recipeOut
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out.Ingredients, 1)
	assert.Equal(t, pepper.ID, out.Ingredients[0].ID)
	assert.Equal(t, 3, out.Ingredients[0].Amount)

	var saltLines int64
	require.NoError(t, s.db.Model(&domain.RecipeIngredient{}).Where("ingredient_id = ?", salt.ID).Count(&saltLines).Error)
	assert.Zero(t, saltLines)

	rr, _ = s.do(t, http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr, _ = s.do(t, http.MethodDelete, path, author, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr, _ = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFollowScenario(t *testing.T) {
	s := setupSuite(t)
	meID, me := s.signup(t, "reader")
	authorID, author := s.signup(t, "author")
	tagID, salt, _ := s.seedCatalog(t)
	for _, name := range []string{"One", "Two", "Three"} {
		s.compose(t, author, recipeBody(name, tagID, ln(salt.ID, 1)))
	}

	rr, resp := s.do(t, http.MethodPost, "/api/users/"+itoa(meID)+"/subscribe", me, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "SELF_REFERENCE", resp.Error.Code)

	rr, resp = s.do(t, http.MethodPost, "/api/users/"+itoa(authorID)+"/subscribe?recipes_limit=2", me, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var profile domain.AuthorProfile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.True(t, profile.IsSubscribed)
	assert.Len(t, profile.Recipes, 2)
	assert.EqualValues(t, 3, profile.RecipesCount)

	rr, resp = s.do(t, http.MethodPost, "/api/users/"+itoa(authorID)+"/subscribe", me, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)

	rr, resp = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=abc", me, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Count   int64                  `json:"count"`
		Results []domain.AuthorProfile `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 3)

	rr, resp = s.do(t, http.MethodGet, "/api/users/"+itoa(authorID), me, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var user domain.UserProfile
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.True(t, user.IsSubscribed)

	rr, resp = s.do(t, http.MethodGet, "/api/users/"+itoa(authorID)+"/profile?recipes_limit=0", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var anon domain.AuthorProfile
	require.NoError(t, json.Unmarshal(resp.Data, &anon))
	assert.False(t, anon.IsSubscribed)
	assert.Empty(t, anon.Recipes)
	assert.EqualValues(t, 3, anon.RecipesCount)

	rr, _ = s.do(t, http.MethodDelete, "/api/users/"+itoa(authorID)+"/subscribe", me, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr, resp = s.do(t, http.MethodDelete, "/api/users/"+itoa(authorID)+"/subscribe", me, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	rr, _ = s.do(t, http.MethodGet, "/api/users/me", me, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = s.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRecipeListFilters(t *testing.T) {
	s := setupSuite(t)
	aliceID, alice := s.signup(t, "alice")
	_, bob := s.signup(t, "bob")
	tagID, salt, _ := s.seedCatalog(t)

	r1 := s.compose(t, alice, recipeBody("Alice soup", tagID, ln(salt.ID, 1)))
	s.compose(t, bob, recipeBody("Bob soup", tagID, ln(salt.ID, 1)))

	rr, _ := s.do(t, http.MethodPost, "/api/recipes/"+itoa(r1.ID)+"/favorite", bob, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	count := func(path, token string) int64 {
		rr, resp := s.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var page struct {
			Count int64 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		return page.Count
	}

	assert.EqualValues(t, 2, count("/api/recipes", ""))
	assert.EqualValues(t, 1, count("/api/recipes?author="+itoa(aliceID), ""))
	assert.EqualValues(t, 2, count("/api/recipes?tags=lunch", ""))
	assert.EqualValues(t, 0, count("/api/recipes?tags=dinner", ""))
	assert.EqualValues(t, 1, count("/api/recipes?is_favorited=1", bob))
	assert.EqualValues(t, 0, count("/api/recipes?is_in_shopping_cart=1", bob))
	assert.EqualValues(t, 2, count("/api/recipes?is_favorited=1", ""))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
