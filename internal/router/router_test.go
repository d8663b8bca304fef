package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:         "8080",
		DatabasePath: ":memory:",
		JWTSecret:    "test-secret-key",
		AppName:      "Test",
	}

	db, err := database.Initialize(cfg, zap.NewNop())
	require.NoError(t, err)

	r, err := Setup(db, cfg, zap.NewNop())
	require.NoError(t, err)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(t *testing.T, r http.Handler, username string) (string, map[string]any) {
	t.Helper()
	w := do(t, r, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "testpass123",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return body["token"].(string), body["user"].(map[string]any)
}

func TestRegister(t *testing.T) {
	r := setupTestRouter(t)

	_, first := register(t, r, "firstuser")
	assert.Equal(t, "superadmin", first["role"])

	_, second := register(t, r, "seconduser")
	assert.Equal(t, "user", second["role"])

	w := do(t, r, "POST", "/api/auth/register", "", map[string]string{
		"username": "seconduser",
		"password": "testpass123",
		"email":    "other@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	r := setupTestRouter(t)
	register(t, r, "loginuser")

	w := do(t, r, "POST", "/api/auth/login", "", map[string]string{
		"username": "loginuser",
		"password": "testpass123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")

	w = do(t, r, "POST", "/api/auth/login", "", map[string]string{
		"username": "loginuser@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	r := setupTestRouter(t)
	token, _ := register(t, r, "leaving")

	assert.Equal(t, http.StatusOK, do(t, r, "GET", "/api/auth/me", token, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, "POST", "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, "GET", "/api/auth/me", token, nil).Code)
}

func TestGetGames(t *testing.T) {
	r := setupTestRouter(t)

	w := do(t, r, "GET", "/api/games", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "games")
	assert.Contains(t, w.Body.String(), "pagination")

	w = do(t, r, "GET", "/api/games/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, "GET", "/api/games/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreatesGameDirectly(t *testing.T) {
	r := setupTestRouter(t)
	admin, _ := register(t, r, "admin")

	w := do(t, r, "POST", "/api/games", admin, map[string]any{
		"name":  "Summer Days",
		"image": "https://img.example/summer.png",
		"translation": map[string]any{
			"translation_name": "FR",
			"version":          "v1.0",
			"tversion":         "v1.0",
			"status":           "in_progress",
			"ttype":            "manual",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	game := decode(t, w)["game"].(map[string]any)

	w = do(t, r, "GET", "/api/games/"+game["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Summer Days")
	assert.Contains(t, w.Body.String(), "v1.0")

	// direct_mode=false routes even an admin through moderation
	w = do(t, r, "POST", "/api/games?direct_mode=false", admin, map[string]any{
		"name":  "Winter Nights",
		"image": "https://img.example/winter.png",
	})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestSubmissionModeration(t *testing.T) {
	r := setupTestRouter(t)
	admin, _ := register(t, r, "admin")
	user, _ := register(t, r, "player")

	w := do(t, r, "POST", "/api/games", user, map[string]any{
		"name":  "Moonlit Academy",
		"image": "https://img.example/moon.png",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	sub := decode(t, w)["submission"].(map[string]any)
	assert.Equal(t, "pending", sub["status"])
	subID := sub["id"].(string)

	// nothing reaches the catalog before acceptance
	w = do(t, r, "GET", "/api/games", "", nil)
	assert.EqualValues(t, 0, decode(t, w)["pagination"].(map[string]any)["total"])

	w = do(t, r, "PATCH", "/api/submissions/"+subID+"/status", user, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, "GET", "/api/submissions/all?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), subID)

	w = do(t, r, "PATCH", "/api/submissions/"+subID+"/status", admin, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, "PATCH", "/api/submissions/"+subID+"/status", admin, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "accepted", decode(t, w)["submission"].(map[string]any)["status"])

	w = do(t, r, "GET", "/api/games", "", nil)
	assert.EqualValues(t, 1, decode(t, w)["pagination"].(map[string]any)["total"])
	assert.Contains(t, w.Body.String(), "Moonlit Academy")

	w = do(t, r, "GET", "/api/notifications", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["unread_count"])

	w = do(t, r, "GET", "/api/submissions", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), subID)

	w = do(t, r, "PATCH", "/api/submissions/"+subID+"/status", admin, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPermissions(t *testing.T) {
	r := setupTestRouter(t)
	admin, _ := register(t, r, "admin")
	user, _ := register(t, r, "player")

	assert.Equal(t, http.StatusUnauthorized, do(t, r, "GET", "/api/logs", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, "GET", "/api/logs", user, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, "GET", "/api/config", user, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, "GET", "/api/users", user, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, "GET", "/api/translators", user, nil).Code)

	w := do(t, r, "GET", "/api/logs", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// the registrations and the forbidden requests above were recorded
	assert.NotEmpty(t, decode(t, w)["logs"])

	assert.Equal(t, http.StatusOK, do(t, r, "GET", "/api/config", admin, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, "GET", "/api/users", admin, nil).Code)
}

func TestDashboard(t *testing.T) {
	r := setupTestRouter(t)
	admin, _ := register(t, r, "admin")
	user, _ := register(t, r, "player")

	w := do(t, r, "GET", "/api/dashboard", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "user_stats")
	assert.NotContains(t, body, "global_stats")

	w = do(t, r, "GET", "/api/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "global_stats")
}

func TestAdminTranslationDirectWrites(t *testing.T) {
	r := setupTestRouter(t)
	admin, adminUser := register(t, r, "admin")

	w := do(t, r, "POST", "/api/games", admin, map[string]any{
		"name":  "Harbor Lights",
		"image": "https://img.example/harbor.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gameID := decode(t, w)["game"].(map[string]any)["id"].(string)

	w = do(t, r, "POST", "/api/games/"+gameID+"/translations", admin, map[string]any{
		"version":       "v0.3",
		"tversion":      "v0.3",
		"status":        "in_progress",
		"ttype":         "manual",
		"tname":         "translation",
		"tlink":         "https://dl.example/harbor",
		"translator_id": "someone-else",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["translation"].(map[string]any)
	assert.Equal(t, adminUser["id"], created["translator_id"])

	// no tname in the update: the row keeps its kind and takes the new link
	w = do(t, r, "PUT", "/api/games/"+gameID+"/translations/"+created["id"].(string), admin, map[string]any{
		"version":  "v0.4",
		"tversion": "v0.4",
		"status":   "in_progress",
		"ttype":    "manual",
		"tlink":    "https://dl.example/harbor-04",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["translation"].(map[string]any)
	assert.Equal(t, "translation", updated["tname"])
	assert.Equal(t, "https://dl.example/harbor-04", updated["tlink"])
	assert.Equal(t, "v0.4", updated["version"])
}
