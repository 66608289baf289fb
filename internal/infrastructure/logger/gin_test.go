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

// requestEntry finds the request log entry among everything recorded.
func requestEntry(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e
		}
	}
	t.Fatal("no HTTP Request entry logged")
	return nil
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful requests at info", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/runs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/runs", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
	})

	t.Run("logs 4xx at warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.POST("/api/v1/ingest/orders", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/ingest/orders", nil)
		router.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("logs 5xx at error", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/runs", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/runs", nil)
		router.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	})

	t.Run("includes request ID set by upstream middleware", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-gin-1")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/runs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/runs", nil)
		router.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		var requestID string
		for _, field := range entry.Context {
			if field.Key == "request_id" {
				requestID = field.String
			}
		}
		assert.Equal(t, "req-gin-1", requestID)
	})

	t.Run("includes the raw query when present", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/runs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/runs?dataset=orders&limit=5", nil)
		router.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		var query string
		for _, field := range entry.Context {
			if field.Key == "query" {
				query = field.String
			}
		}
		assert.Contains(t, query, "dataset=orders")
	})

	t.Run("logs the standard request fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.POST("/api/v1/ingest/tracking", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/ingest/tracking", nil)
		req.Header.Set("User-Agent", "recon-cli/1.0")
		router.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		fields := make(map[string]struct{}, len(entry.Context))
		for _, field := range entry.Context {
			fields[field.Key] = struct{}{}
		}

		for _, want := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
			assert.Contains(t, fields, want)
		}
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("pipeline blew up")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)

		var got *zap.Logger
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/runs", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/runs", nil)
		router.ServeHTTP(w, req)

		assert.NotNil(t, got)
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		var got *zap.Logger
		router := gin.New()
		router.GET("/bare", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bare", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, got)
		assert.NotPanics(t, func() {
			got.Info("noop")
		})
	})
}
