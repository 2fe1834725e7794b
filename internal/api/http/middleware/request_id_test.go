package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("reuses an incoming id and exposes it via the context", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		var seen string
		r.GET("/ping", func(c *gin.Context) {
			seen = GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	})

	t.Run("generates an id when none arrives", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		var seen string
		r.GET("/ping", func(c *gin.Context) {
			seen = GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
	})

	t.Run("empty without the middleware", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}
