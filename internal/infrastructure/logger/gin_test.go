package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveLogged runs one request through GinMiddleware and returns the response
// and the single request log line
func serveLogged(t *testing.T, req *http.Request, handler gin.HandlerFunc) (*httptest.ResponseRecorder, observer.LoggedEntry) {
	t.Helper()

	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.Handle(req.Method, req.URL.Path, handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	logs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 1)
	return w, logs[0]
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/organisations/abc", nil)
			w, entry := serveLogged(t, req, func(c *gin.Context) {
				c.Status(tt.status)
			})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddleware_RequestID(t *testing.T) {
	t.Run("propagates the incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/organisations/abc", nil)
		req.Header.Set(RequestIDHeader, "req-ffe-123")

		w, entry := serveLogged(t, req, func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c.Request.Context()))
		})

		assert.Equal(t, "req-ffe-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-ffe-123", w.Body.String())
		assert.Equal(t, "req-ffe-123", entry.ContextMap()["request_id"])
	})

	t.Run("generates one when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)

		w, _ := serveLogged(t, req, func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("request_id"))
		})

		generated := w.Header().Get(RequestIDHeader)
		assert.Len(t, generated, 36)
		assert.Equal(t, generated, w.Body.String())
	})
}

func TestGinMiddleware_Fields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/organisations/abc/steps/name?draft=1", nil)
	req.Header.Set("User-Agent", "ffe-test/1.0")

	_, entry := serveLogged(t, req, func(c *gin.Context) {
		c.Set("user_id", "user-42")
		_ = c.Error(assert.AnError)
		c.Status(http.StatusOK)
	})

	fields := entry.ContextMap()
	assert.Equal(t, "PUT", fields["method"])
	assert.Equal(t, "/api/v1/organisations/abc/steps/name", fields["path"])
	assert.Equal(t, "draft=1", fields["query"])
	assert.Equal(t, "ffe-test/1.0", fields["user_agent"])
	assert.Equal(t, "user-42", fields["user_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "errors")
}

func TestGinMiddleware_OmitsEmptyOptionalFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	_, entry := serveLogged(t, req, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	fields := entry.ContextMap()
	assert.NotContains(t, fields, "query")
	assert.NotContains(t, fields, "user_id")
	assert.NotContains(t, fields, "errors")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.POST("/api/v1/pre-applications/:id/submit", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pre-applications/abc/submit", nil)
	assert.NotPanics(t, func() { router.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "/api/v1/pre-applications/abc/submit", logs[0].ContextMap()["path"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/x", func(c *gin.Context) {
			GetGinLogger(c).Info("from handler")
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		router.ServeHTTP(httptest.NewRecorder(), req)

		logs := recorded.FilterMessage("from handler").All()
		require.Len(t, logs, 1)
		assert.Equal(t, "req-1", logs[0].ContextMap()["request_id"])
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		l := GetGinLogger(c)
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info("ignored") })
	})
}
