package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxLoggedText bounds the payload and error message stored per request
const MaxLoggedText = 10000

const redacted = "[REDACTED]"

// ErrorReporter is told about failed requests after they are logged
type ErrorReporter interface {
	APIError(ctx context.Context, method, route string, status int, username string)
}

// bodyRecorder keeps a bounded copy of what the handler wrote
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if room := MaxLoggedText - w.body.Len(); room > 0 {
		if len(b) > room {
			w.body.Write(b[:room])
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// APILogger records mutating requests and failed responses into the api_logs table
func APILogger(db *gorm.DB, reporter ErrorReporter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload []byte
		if c.Request.Method != http.MethodGet && c.Request.Body != nil {
			payload, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(payload))
		}
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		status := c.Writer.Status()
		if c.Request.Method == http.MethodGet && status < http.StatusBadRequest {
			return
		}

		entry := models.APILog{
			Method:    c.Request.Method,
			Route:     c.Request.URL.Path,
			Status:    status,
			IPAddress: c.ClientIP(),
		}
		username := ""
		if u := CurrentUser(c); u != nil {
			entry.UserID = &u.ID
			username = u.Username
		}
		if len(payload) > 0 {
			p := truncate(RedactPayload(payload))
			entry.Payload = &p
		}
		if status >= http.StatusBadRequest {
			if msg := errorMessage(c, rec.body.Bytes()); msg != "" {
				msg = truncate(msg)
				entry.ErrorMessage = &msg
			}
		}

		ctx := context.WithoutCancel(c.Request.Context())
		if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
			log.Warn("failed to record api log", zap.String("route", entry.Route), zap.Error(err))
		}
		if reporter != nil && status >= http.StatusBadRequest {
			reporter.APIError(ctx, entry.Method, entry.Route, status, username)
		}
	}
}

// RedactPayload masks every JSON field whose name mentions a password.
// Bodies that are not JSON are returned as is.
func RedactPayload(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.Marshal(redact(v))
	if err != nil {
		return string(body)
	}
	return string(out)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if strings.Contains(strings.ToLower(k), "password") {
				t[k] = redacted
				continue
			}
			t[k] = redact(val)
		}
	case []any:
		for i := range t {
			t[i] = redact(t[i])
		}
	}
	return v
}

func errorMessage(c *gin.Context, body []byte) string {
	if len(c.Errors) > 0 {
		return c.Errors.String()
	}
	var resp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
		return resp.Error
	}
	return string(body)
}

// truncate cuts s to at most MaxLoggedText bytes without splitting a rune
func truncate(s string) string {
	if len(s) <= MaxLoggedText {
		return s
	}
	cut := MaxLoggedText
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
