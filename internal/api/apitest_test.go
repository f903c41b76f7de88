package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/testhelpers"
)

// newTestServer builds a router with the full API wired onto an in-memory
// database. Token revocation is disabled (no redis) and images go to a
// temporary media directory.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{
		JWTSecret: "test-secret",
		MediaDir:  t.TempDir(),
	}

	router := gin.New()
	api.SetupAPI(router, db, nil, cfg, nil)
	return router, db, cfg
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// signup registers a user over the API and returns their id.
func signup(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/users/", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "test-password-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return decodeBody(t, w)["id"].(string)
}

// login obtains a bearer token for a user created with signup.
func login(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/token/login/", "", gin.H{
		"email":    username + "@example.com",
		"password": "test-password-1",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	token := decodeBody(t, w)["auth_token"].(string)
	require.NotEmpty(t, token)
	return token
}
