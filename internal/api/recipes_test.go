package api_test

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/testhelpers"
)

func testImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png bytes"))
}

func TestRecipeLifecycle(t *testing.T) {
	router, db, _ := newTestServer(t)
	signup(t, router, "author")
	signup(t, router, "reader")
	authorToken := login(t, router, "author")
	readerToken := login(t, router, "reader")

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	milk := testhelpers.CreateTestIngredient(t, db, "Milk", "ml")
	dinner := testhelpers.CreateTestTag(t, db, "Dinner", "#112233", "dinner")

	payload := gin.H{
		"name":         "Pancakes",
		"text":         "Whisk and fry.",
		"image":        testImage(),
		"cooking_time": 20,
		"tags":         []string{dinner.ID.String()},
		"ingredients": []gin.H{
			{"id": flour.ID.String(), "amount": 200},
			{"id": milk.ID.String(), "amount": 300},
		},
	}

	var recipeID string

	t.Run("create requires authentication", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", "", payload)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create requires an image", func(t *testing.T) {
		noImage := gin.H{}
		for k, v := range payload {
			noImage[k] = v
		}
		delete(noImage, "image")
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", authorToken, noImage)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w), "image")
	})

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", authorToken, payload)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

		body := decodeBody(t, w)
		recipeID = body["id"].(string)
		assert.Equal(t, "Pancakes", body["name"])
		assert.True(t, strings.HasPrefix(body["image"].(string), "/media/recipes/"))
		assert.Equal(t, "author", body["author"].(map[string]any)["username"])
		assert.Equal(t, false, body["is_favorited"])

		ingredients := body["ingredients"].([]any)
		require.Len(t, ingredients, 2)
		amounts := map[string]float64{}
		for _, raw := range ingredients {
			item := raw.(map[string]any)
			amounts[item["name"].(string)] = item["amount"].(float64)
		}
		assert.Equal(t, map[string]float64{"Flour": 200, "Milk": 300}, amounts)
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		bad := gin.H{
			"name":         "Flat pancakes",
			"text":         "No flour.",
			"image":        testImage(),
			"cooking_time": 20,
			"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 0}},
		}
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", authorToken, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w), "ingredients")
	})

	t.Run("anonymous read works", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/"+recipeID+"/", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Pancakes", decodeBody(t, w)["name"])
	})

	t.Run("patch by a non-author is forbidden", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/api/recipes/"+recipeID+"/", readerToken, gin.H{
			"name":         "Stolen pancakes",
			"text":         "Mine now.",
			"cooking_time": 1,
			"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 1}},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("patch by the author", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/api/recipes/"+recipeID+"/", authorToken, gin.H{
			"name":         "Thick pancakes",
			"text":         "Extra flour.",
			"cooking_time": 25,
			"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 250}},
		})
		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "Thick pancakes", body["name"])
		// The image was not resent, so the stored one is kept.
		assert.True(t, strings.HasPrefix(body["image"].(string), "/media/recipes/"))
	})

	t.Run("delete by a non-author is forbidden", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipeID+"/", readerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete by the author", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipeID+"/", authorToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/recipes/"+recipeID+"/", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecipeFavoritesAndCart(t *testing.T) {
	router, db, _ := newTestServer(t)
	signup(t, router, "author")
	signup(t, router, "reader")
	authorToken := login(t, router, "author")
	readerToken := login(t, router, "reader")

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	w := doJSON(t, router, http.MethodPost, "/api/recipes/", authorToken, gin.H{
		"name":         "Bread",
		"text":         "Plain bread.",
		"image":        testImage(),
		"cooking_time": 90,
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 500}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	recipeID := decodeBody(t, w)["id"].(string)

	t.Run("favorite returns a card", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipeID+"/favorite/", readerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Bread", decodeBody(t, w)["name"])
	})

	t.Run("double favorite is a conflict", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipeID+"/favorite/", readerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("favorited filter applies to the requester", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/?is_favorited=1", readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["count"])
		first := body["results"].([]any)[0].(map[string]any)
		assert.Equal(t, true, first["is_favorited"])

		w = doJSON(t, router, http.MethodGet, "/api/recipes/?is_favorited=1", authorToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decodeBody(t, w)["count"])
	})

	t.Run("unfavorite", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipeID+"/favorite/", readerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipeID+"/favorite/", readerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cart add and remove", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipeID+"/shopping_cart/", readerToken, nil)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPost, "/api/recipes/"+recipeID+"/shopping_cart/", readerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/recipes/?is_in_shopping_cart=1", readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeBody(t, w)["count"])

		w = doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipeID+"/shopping_cart/", readerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestShoppingListDownload(t *testing.T) {
	router, db, _ := newTestServer(t)
	signup(t, router, "author")
	signup(t, router, "shopper")
	authorToken := login(t, router, "author")
	shopperToken := login(t, router, "shopper")

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	sugar := testhelpers.CreateTestIngredient(t, db, "Sugar", "g")

	for _, recipe := range []gin.H{
		{
			"name": "Bread", "text": "Plain bread.", "image": testImage(), "cooking_time": 90,
			"ingredients": []gin.H{{"id": flour.ID.String(), "amount": 500}},
		},
		{
			"name": "Cake", "text": "Sweet cake.", "image": testImage(), "cooking_time": 60,
			"ingredients": []gin.H{
				{"id": flour.ID.String(), "amount": 300},
				{"id": sugar.ID.String(), "amount": 150},
			},
		},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", authorToken, recipe)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		recipeID := decodeBody(t, w)["id"].(string)

		w = doJSON(t, router, http.MethodPost, "/api/recipes/"+recipeID+"/shopping_cart/", shopperToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("text export sums shared ingredients", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/download_shopping_cart/", shopperToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
		assert.Contains(t, w.Body.String(), "- Flour (g): 800")
		assert.Contains(t, w.Body.String(), "- Sugar (g): 150")
	})

	t.Run("pdf export", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/download_shopping_cart/?pdf=1", shopperToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})
}

func TestRecipeListFilters(t *testing.T) {
	router, db, _ := newTestServer(t)
	authorID := signup(t, router, "author")
	signup(t, router, "other")
	authorToken := login(t, router, "author")
	otherToken := login(t, router, "other")

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	dinner := testhelpers.CreateTestTag(t, db, "Dinner", "#112233", "dinner")
	dessert := testhelpers.CreateTestTag(t, db, "Dessert", "#445566", "dessert")

	create := func(token, name, tagID string) {
		w := doJSON(t, router, http.MethodPost, "/api/recipes/", token, gin.H{
			"name": name, "text": "Some text.", "image": testImage(), "cooking_time": 30,
			"tags":        []string{tagID},
			"ingredients": []gin.H{{"id": flour.ID.String(), "amount": 100}},
		})
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	}
	create(authorToken, "Bread", dinner.ID.String())
	create(otherToken, "Cake", dessert.ID.String())

	count := func(path string) float64 {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody(t, w)["count"].(float64)
	}

	assert.Equal(t, float64(2), count("/api/recipes/"))
	assert.Equal(t, float64(1), count("/api/recipes/?author="+authorID))
	assert.Equal(t, float64(1), count("/api/recipes/?tags=dessert"))
	assert.Equal(t, float64(2), count("/api/recipes/?tags=dessert&tags=dinner"))

	t.Run("malformed author id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recipes/?author=not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
