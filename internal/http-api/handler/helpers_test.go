package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// withUser stands in for Authenticate in handler tests.
func withUser(id int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &service.Claims{UserID: id, Role: role})
		c.Set(middleware.UserIDKey, id)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func setupRouter(mw ...gin.HandlerFunc) (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(mw...)
	return r, r.Group("/api")
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
