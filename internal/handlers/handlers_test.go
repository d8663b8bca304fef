package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/database"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Initialize(&config.Config{DatabasePath: ":memory:", AppName: "Test"}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{submissions.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", catalog.ErrGameNotFound), http.StatusNotFound},
		{catalog.ErrTranslationNotFound, http.StatusNotFound},
		{submissions.ErrConflict, http.StatusConflict},
		{catalog.ErrDuplicateName, http.StatusConflict},
		{submissions.ErrMissingSnapshot, http.StatusConflict},
		{submissions.ErrStatusChanged, http.StatusConflict},
		{fmt.Errorf("%w: game.name", submissions.ErrInvalidPayload), http.StatusUnprocessableEntity},
		{submissions.ErrInvalidRequest, http.StatusBadRequest},
		{submissions.ErrInvalidTransition, http.StatusBadRequest},
		{submissions.ErrNoteRequired, http.StatusBadRequest},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("pq: connection refused"), "failed to fetch games")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to fetch games")
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Len(t, c.Errors, 1)
}

func TestClampLogLimit(t *testing.T) {
	tests := map[string]int{
		"":     100,
		"abc":  100,
		"10":   25,
		"25":   25,
		"200":  200,
		"500":  500,
		"9000": 500,
	}
	for raw, want := range tests {
		assert.Equal(t, want, clampLogLimit(raw), raw)
	}
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-2&limit=1000", 1, 20},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest("GET", "/?"+tt.query, nil)
		page, limit := pageParams(c, 20, 100)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}

	assert.EqualValues(t, 3, pagination(1, 20, 41)["pages"])
	assert.EqualValues(t, 0, pagination(1, 20, 0)["pages"])
}

func TestGetLogsFilters(t *testing.T) {
	db := testDB(t)
	alice := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)
	for _, l := range []models.APILog{
		{Method: "POST", Route: "/api/games", Status: 202, UserID: &alice.ID},
		{Method: "PUT", Route: "/api/games/1", Status: 404},
		{Method: "POST", Route: "/api/scrape", Status: 502},
		{Method: "GET", Route: "/api/old", Status: 301},
	} {
		require.NoError(t, db.Create(&l).Error)
	}

	r := gin.New()
	r.GET("/logs", NewLogHandler(db).GetLogs)

	count := func(query string) int {
		w := send(r, "GET", "/logs?"+query, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			Logs    []models.APILog `json:"logs"`
			Filters map[string]any  `json:"filters"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return len(body.Logs)
	}
	assert.Equal(t, 4, count(""))
	assert.Equal(t, 2, count("method=post"))
	assert.Equal(t, 1, count("errors=true"))
	assert.Equal(t, 1, count("warnings=true"))
	assert.Equal(t, 1, count("redirects=true"))
	assert.Equal(t, 1, count("user=ali"))
	assert.Equal(t, 1, count("q=scrape"))
}

func TestTranslatorConflicts(t *testing.T) {
	db := testDB(t)
	h := NewTranslatorHandler(db)
	r := gin.New()
	r.GET("/translators", h.GetTranslators)
	r.POST("/translators", h.CreateTranslator)
	r.PUT("/translators/:id", h.UpdateTranslator)

	w := send(r, "POST", "/translators", `{"name":"Alpha","discord_id":"111","pages":[{"name":"F95","link":"https://f95zone.to/members/1"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = send(r, "POST", "/translators", `{"name":"Beta","discord_id":" "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, http.StatusConflict, send(r, "POST", "/translators", `{"name":"Alpha"}`).Code)
	assert.Equal(t, http.StatusConflict, send(r, "POST", "/translators", `{"name":"Gamma","discord_id":"111"}`).Code)

	var beta models.Translator
	require.NoError(t, db.First(&beta, "name = ?", "Beta").Error)
	assert.Nil(t, beta.DiscordID)
	assert.Equal(t, http.StatusConflict, send(r, "PUT", "/translators/"+beta.ID, `{"name":"Alpha"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, "PUT", "/translators/"+beta.ID, `{"name":"Beta","discord_id":"222"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, "PUT", "/translators/missing", `{"name":"X"}`).Code)

	w = send(r, "GET", "/translators", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, strings.Index(w.Body.String(), "Alpha"), strings.Index(w.Body.String(), "Beta"))
}

func TestUpdateConfig(t *testing.T) {
	db := testDB(t)
	h := NewConfigHandler(db)
	r := gin.New()
	r.PUT("/config", h.UpdateConfig)

	w := send(r, "PUT", "/config", `{"app_name":"Tracker","discord_webhook_logs":"https://discord.com/api/webhooks/1/abc"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg models.AppConfig
	require.NoError(t, db.First(&cfg, "id = ?", models.AppConfigID).Error)
	assert.Equal(t, "Tracker", cfg.AppName)
	require.NotNil(t, cfg.DiscordWebhookLogs)

	w = send(r, "PUT", "/config", `{"discord_webhook_logs":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cleared models.AppConfig
	require.NoError(t, db.First(&cleared, "id = ?", models.AppConfigID).Error)
	assert.Nil(t, cleared.DiscordWebhookLogs)
	assert.Equal(t, "Tracker", cleared.AppName)

	assert.Equal(t, http.StatusBadRequest, send(r, "PUT", "/config", `{"discord_webhook_logs":"not a url"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "PUT", "/config", `{"app_name":"  "}`).Code)
}
