package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repository.NewMemoryDB()
	v := validation.New()
	metrics := service.NewMetricsService()
	accounts := devapi.NewAccounts(db, devapi.AccountsConfig{Secret: "router-secret", TokenTTL: time.Hour}, v, nil)
	records := devapi.NewRecords(db, v, nil)

	r := gin.New()
	r.Use(middleware.Metrics(metrics))
	RegisterRoutes(r, NewHandlers(accounts, records, metrics), accounts)
	return r
}

type apiCall struct {
	t      *testing.T
	router http.Handler
}

func (a apiCall) do(method, path, token string, body interface{}) (int, gjson.Result) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec.Code, gjson.ParseBytes(rec.Body.Bytes())
}

// seed creates a school with an administrator and a teacher and returns
// their tokens.
func seed(t *testing.T, api apiCall) (schoolID, adminToken, teacherToken, teacherID string) {
	t.Helper()
	status, body := api.do(http.MethodPost, "/schools", "", gin.H{"school": gin.H{"name": "Escola", "email": "escola@x.br"}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	schoolID = body.Get("_id").String()
	require.NotEmpty(t, schoolID)

	status, body = api.do(http.MethodPost, "/users", "", gin.H{"user": gin.H{
		"name": "Admin", "email": "admin@x.br", "password": "secret1", "password_confirmation": "secret1",
		"user_type": "admin", "school_id": schoolID,
	}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	adminToken = body.Get("token").String()

	status, body = api.do(http.MethodPost, "/users", "", gin.H{"user": gin.H{
		"name": "Prof", "email": "prof@x.br", "password": "secret1", "password_confirmation": "secret1",
		"user_type": "teacher", "school_id": schoolID, "address": "Rua A",
	}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	teacherToken = body.Get("token").String()
	teacherID = body.Get("user._id").String()
	return schoolID, adminToken, teacherToken, teacherID
}

func TestHealthAndMetrics(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	status, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Get("status").String())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestLoginContract(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	seed(t, api)

	status, body := api.do(http.MethodPost, "/users/login", "", gin.H{"email": "admin@x.br", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body.Get("token").String())
	assert.Equal(t, "admin", body.Get("user.user_type").String())
	assert.True(t, body.Get("user._id").Exists())
	assert.False(t, body.Get("user.id").Exists())
	assert.False(t, body.Get("user.PasswordHash").Exists())

	status, body = api.do(http.MethodPost, "/users/login", "", gin.H{"email": "admin@x.br", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body.Get("error").String())
}

func TestRegisterValidationErrors(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	status, body := api.do(http.MethodPost, "/users", "", gin.H{"user": gin.H{"email": "bad"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("errors").IsArray())
	assert.Contains(t, body.Get("errors").String(), "email must be a valid email")

	status, _ = api.do(http.MethodPost, "/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProtectedRoutes(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	_, adminToken, teacherToken, teacherID := seed(t, api)

	status, _ := api.do(http.MethodGet, "/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = api.do(http.MethodGet, "/students", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodGet, "/users", teacherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, body := api.do(http.MethodGet, "/users/"+teacherID, teacherToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "prof@x.br", body.Get("email").String())

	status, body = api.do(http.MethodGet, "/users?user_type=teacher", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Array(), 1)

	status, _ = api.do(http.MethodDelete, "/users/"+teacherID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodGet, "/users/me", teacherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicSchoolsHideContacts(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	schoolID, _, _, _ := seed(t, api)

	status, body := api.do(http.MethodGet, "/schools/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Array(), 1)
	assert.Equal(t, schoolID, body.Get("0._id").String())
	assert.Empty(t, body.Get("0.email").String())
}

func TestGradeFlow(t *testing.T) {
	api := apiCall{t: t, router: newTestRouter(t)}
	_, adminToken, teacherToken, teacherID := seed(t, api)

	status, body := api.do(http.MethodPost, "/students", adminToken, gin.H{"student": gin.H{
		"name": "Ana", "email": "ana@aluno.br", "registration_number": "1",
	}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	studentID := body.Get("_id").String()

	status, body = api.do(http.MethodPost, "/subjects", teacherToken, gin.H{"subject": gin.H{
		"name": "Biologia", "code": "BIO", "number_of_grades": 2, "passing_average": 6, "recovery_average": 4,
	}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	subjectID := body.Get("_id").String()
	assert.Equal(t, teacherID, body.Get("teacher_id").String())

	status, body = api.do(http.MethodPost, "/grades", teacherToken, gin.H{"grade": gin.H{
		"student_id": studentID, "subject_id": subjectID, "scores": []float64{5},
	}})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	gradeID := body.Get("_id").String()
	assert.Equal(t, "incomplete", body.Get("status").String())

	status, body = api.do(http.MethodPost, "/grades", teacherToken, gin.H{"grade": gin.H{
		"student_id": studentID, "subject_id": subjectID, "scores": []float64{9},
	}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "grade already exists for this student and subject", body.Get("errors.0").String())

	status, body = api.do(http.MethodPut, "/grades/"+gradeID, teacherToken, gin.H{"grade": gin.H{"add_score": 9}})
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, 7.0, body.Get("average").Float())
	assert.Equal(t, "approved", body.Get("status").String())

	status, body = api.do(http.MethodPut, "/grades/"+gradeID, teacherToken, gin.H{"grade": gin.H{"score_index": 0, "update_score": 1}})
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, "recovery", body.Get("status").String())

	status, _ = api.do(http.MethodPut, "/grades/"+gradeID, teacherToken, gin.H{"grade": gin.H{"score_index": 5, "update_score": 1}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = api.do(http.MethodGet, "/grades?student_id="+studentID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Array(), 1)
	assert.Equal(t, gradeID, body.Get("0._id").String())
	assert.Equal(t, "[1,9]", body.Get("0.scores").Raw)

	status, _ = api.do(http.MethodDelete, "/grades/"+gradeID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodGet, "/grades/"+gradeID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
