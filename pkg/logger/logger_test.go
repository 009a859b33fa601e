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

	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
)

func TestGinMiddlewareLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(requestid.Middleware(), GinMiddleware(zap.New(core), "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/grades/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/grades/42", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(requestid.Header, "req-1")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "/grades/:id", entries[0].ContextMap()["route"])
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNewFallsBackOnBadLevel(t *testing.T) {
	l, err := New(&config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "loud", Format: "console"}})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(&config.Config{Env: config.EnvProduction})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
