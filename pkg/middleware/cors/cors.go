package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, Accept, X-Request-ID"
	allowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	exposeHeaders = "X-Request-ID"
)

// New returns the dev API CORS middleware. An empty list allows any origin,
// which the Expo web preview of the app relies on during development.
func New(allowedOrigins []string) gin.HandlerFunc {
	policy := newPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := policy.allows(origin)
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if allowed {
			h.Set("Access-Control-Allow-Origin", policy.echo(origin))
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}

type policy struct {
	any     bool
	origins map[string]struct{}
}

func newPolicy(origins []string) policy {
	p := policy{any: len(origins) == 0, origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			p.any = true
			continue
		}
		p.origins[normalize(o)] = struct{}{}
	}
	return p
}

func (p policy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	_, ok := p.origins[normalize(origin)]
	return ok
}

// echo returns the Allow-Origin value. Listed origins are echoed so the
// bearer header may be sent; the open policy answers with a wildcard.
func (p policy) echo(origin string) string {
	if p.any {
		return "*"
	}
	return origin
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
