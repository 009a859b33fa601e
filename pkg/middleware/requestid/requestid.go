package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID between the client and the dev API.
const Header = "X-Request-ID"

const ginKey = "request_id"

type ctxKey struct{}

// Middleware adopts the caller's request ID, or assigns one, and echoes it
// back. The ID is stored on both the gin context and the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(Header)
		if reqID == "" || len(reqID) > 128 {
			reqID = New()
		}

		c.Set(ginKey, reqID)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqID))
		c.Writer.Header().Set(Header, reqID)

		c.Next()
	}
}

// Value returns the request ID stored in the gin context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(ginKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithContext returns a copy of ctx carrying id. Outbound API calls made with
// the returned context reuse id, so one CLI command correlates with every
// request it issues.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the ID set by WithContext.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Ensure returns the ID carried by ctx, generating a fresh one when absent.
func Ensure(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return New()
}

// New generates a request ID.
func New() string {
	return uuid.NewString()
}
