package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/database"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reportedError struct {
	route  string
	status int
	user   string
}

type recordingReporter struct{ calls []reportedError }

func (r *recordingReporter) APIError(_ context.Context, _ string, route string, status int, username string) {
	r.calls = append(r.calls, reportedError{route, status, username})
}

func setup(t *testing.T) (*gorm.DB, *auth.Sessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Initialize(&config.Config{DatabasePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	return db, auth.NewSessions(db, "secret")
}

func login(t *testing.T, db *gorm.DB, sessions *auth.Sessions, role models.Role) (*models.User, string) {
	t.Helper()
	u := &models.User{Email: string(role) + "@example.com", Username: string(role), PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	token, _, err := sessions.Issue(context.Background(), u.ID)
	require.NoError(t, err)
	return u, token
}

func TestAuthMiddleware(t *testing.T) {
	db, sessions := setup(t)
	u, token := login(t, db, sessions, models.RoleUser)

	r := gin.New()
	r.GET("/me", AuthMiddleware(sessions, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(ContextUserID), "role": CurrentUser(c).Role})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), u.ID)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	db, sessions := setup(t)
	policy, err := auth.NewPolicy()
	require.NoError(t, err)
	_, userToken := login(t, db, sessions, models.RoleUser)
	_, adminToken := login(t, db, sessions, models.RoleAdmin)

	r := gin.New()
	r.PATCH("/moderate", AuthMiddleware(sessions, zap.NewNop()), RequirePermission(policy, auth.PermSubmissionsModerate), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for token, want := range map[string]int{userToken: http.StatusForbidden, adminToken: http.StatusNoContent} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/moderate", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	db, sessions := setup(t)
	_, token := login(t, db, sessions, models.RoleUser)

	r := gin.New()
	r.GET("/games", OptionalAuth(sessions, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": CurrentUser(c) == nil})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/games", nil))
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"anonymous":false}`, w.Body.String())
}

func TestAPILogger(t *testing.T) {
	db, sessions := setup(t)
	u, token := login(t, db, sessions, models.RoleUser)
	reporter := &recordingReporter{}

	r := gin.New()
	r.Use(APILogger(db, reporter, zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	r.GET("/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "game not found"}) })
	r.POST("/login", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	r.POST("/boom", AuthMiddleware(sessions, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
	})

	do := func(method, path, body string) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	do(http.MethodGet, "/ok", "")
	do(http.MethodGet, "/missing", "")
	do(http.MethodPost, "/login", `{"username":"bob","password":"hunter22","nested":{"newPassword":"x"}}`)
	do(http.MethodPost, "/boom", `{}`)

	var logs []models.APILog
	require.NoError(t, db.Order("created_at ASC").Find(&logs).Error)
	require.Len(t, logs, 3)

	assert.Equal(t, "/missing", logs[0].Route)
	assert.Equal(t, "game not found", *logs[0].ErrorMessage)

	assert.Equal(t, "/login", logs[1].Route)
	require.NotNil(t, logs[1].Payload)
	assert.NotContains(t, *logs[1].Payload, "hunter22")
	assert.Contains(t, *logs[1].Payload, `"password":"[REDACTED]"`)
	assert.Contains(t, *logs[1].Payload, `"newPassword":"[REDACTED]"`)
	assert.Nil(t, logs[1].ErrorMessage)

	assert.Equal(t, http.StatusInternalServerError, logs[2].Status)
	require.NotNil(t, logs[2].UserID)
	assert.Equal(t, u.ID, *logs[2].UserID)

	assert.Equal(t, []reportedError{
		{"/missing", http.StatusNotFound, ""},
		{"/boom", http.StatusInternalServerError, u.Username},
	}, reporter.calls)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", MaxLoggedText+10)
	assert.Len(t, truncate(long), MaxLoggedText)
	assert.Equal(t, "short", truncate("short"))
	assert.Equal(t, "not json", RedactPayload([]byte("not json")))

	// byte MaxLoggedText falls inside a two-byte "é"
	accented := "a" + strings.Repeat("é", MaxLoggedText)
	cut := truncate(accented)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, MaxLoggedText-1)
	assert.True(t, strings.HasPrefix(accented, cut))
}
