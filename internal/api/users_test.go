package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"
)

func TestUserRegistration(t *testing.T) {
	router, _, _ := newTestServer(t)

	t.Run("registers and logs in", func(t *testing.T) {
		id := signup(t, router, "ada")
		require.NotEmpty(t, id)
		login(t, router, "ada")
	})

	t.Run("reserved username is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/", "", gin.H{
			"email":      "me@example.com",
			"username":   "me",
			"first_name": "Test",
			"last_name":  "User",
			"password":   "test-password-1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w), "username")
	})

	t.Run("wrong password cannot log in", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/token/login/", "", gin.H{
			"email":    "ada@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMeAndSetPassword(t *testing.T) {
	router, _, _ := newTestServer(t)
	signup(t, router, "grace")
	token := login(t, router, "grace")

	t.Run("me requires a token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/users/me/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the requester", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/users/me/", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "grace", decodeBody(t, w)["username"])
	})

	t.Run("set_password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/set_password/", token, gin.H{
			"current_password": "test-password-1",
			"new_password":     "another-password-2",
		})
		require.Equal(t, http.StatusNoContent, w.Code, "body: %s", w.Body.String())

		w = doJSON(t, router, http.MethodPost, "/api/auth/token/login/", "", gin.H{
			"email":    "grace@example.com",
			"password": "another-password-2",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("set_password with wrong current password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/set_password/", token, gin.H{
			"current_password": "wrong",
			"new_password":     "whatever-password-3",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w), "current_password")
	})
}

func TestUserListPagination(t *testing.T) {
	router, _, _ := newTestServer(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		signup(t, router, name)
	}

	w := doJSON(t, router, http.MethodGet, "/api/users/?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
	assert.NotNil(t, body["next"])
	assert.Nil(t, body["previous"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].(map[string]any)["username"])
}

func TestSubscriptions(t *testing.T) {
	router, _, _ := newTestServer(t)
	readerID := signup(t, router, "reader")
	authorID := signup(t, router, "author")
	token := login(t, router, "reader")

	t.Run("subscribe", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/"+authorID+"/subscribe/", token, nil)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "author", body["username"])
		assert.Equal(t, true, body["is_subscribed"])
		assert.Equal(t, float64(0), body["recipes_count"])
	})

	t.Run("subscribing twice is a conflict", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/"+authorID+"/subscribe/", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("subscribing to yourself is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/"+readerID+"/subscribe/", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("subscribing to an unknown author", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/users/"+uuid.NewString()+"/subscribe/", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("profile shows the subscription", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/users/"+authorID+"/", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["is_subscribed"])
	})

	t.Run("subscription listing", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/users/subscriptions/", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/users/"+authorID+"/subscribe/", token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/api/users/"+authorID+"/subscribe/", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
