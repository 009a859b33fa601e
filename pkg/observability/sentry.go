// Package observability reports errors to Sentry when a DSN is configured.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitSentry initialises the Sentry client. The returned function flushes
// buffered events and must be called before exit. An empty DSN disables
// reporting.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports err. It is a no-op without an initialised client.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// Recovery converts panics in gin handlers into 500 responses and reports them.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic in %s %s: %v", c.Request.Method, c.FullPath(), r)
				logger.Error("handler panic", zap.Error(err))
				CaptureErr(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
