package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

type staticTokens map[string]*models.Claims

func (s staticTokens) ValidateToken(token string) (*models.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type observed struct {
	route  string
	status int
}

type recordingObserver struct{ calls []observed }

func (r *recordingObserver) ObserveHTTPRequest(_, route string, status int, _ time.Duration) {
	r.calls = append(r.calls, observed{route: route, status: status})
}

func newRouter(obs RequestObserver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := staticTokens{
		"admin":   {UserID: "a1", SchoolID: "s1", Role: models.RoleAdmin},
		"teacher": {UserID: "t1", SchoolID: "s1", Role: models.RoleTeacher},
	}
	r := gin.New()
	r.Use(Metrics(obs))
	auth := r.Group("", JWT(tokens))
	auth.GET("/users/:id", RBAC(string(models.RoleAdmin), Self), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	auth.DELETE("/users/:id", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearer(t *testing.T) {
	r := newRouter(nil)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/users/t1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/users/t1", "Basic teacher").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/users/t1", "Bearer nope").Code)

	rec := call(r, http.MethodGet, "/users/t1", "bearer teacher")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", rec.Body.String())
}

func TestRBACSelfAndRoles(t *testing.T) {
	r := newRouter(nil)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/users/a1", "Bearer teacher").Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/users/t1", "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodDelete, "/users/t1", "Bearer teacher").Code)
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/users/t1", "Bearer admin").Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	r := newRouter(obs)
	call(r, http.MethodGet, "/users/t1", "Bearer teacher")
	call(r, http.MethodGet, "/nowhere", "")

	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{route: "/users/:id", status: http.StatusOK}, obs.calls[0])
	assert.Equal(t, observed{route: unmatchedRoute, status: http.StatusNotFound}, obs.calls[1])
}
