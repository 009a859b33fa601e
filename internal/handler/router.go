package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
)

// Handlers groups the dev API handlers.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Schools  *SchoolHandler
	Students *StudentHandler
	Subjects *SubjectHandler
	Grades   *GradeHandler
	Metrics  *MetricsHandler
}

// NewHandlers builds every handler over the same rules.
func NewHandlers(accounts *devapi.Accounts, records *devapi.Records, metrics *service.MetricsService) Handlers {
	return Handlers{
		Auth:     NewAuthHandler(accounts),
		Users:    NewUserHandler(accounts),
		Schools:  NewSchoolHandler(records),
		Students: NewStudentHandler(records),
		Subjects: NewSubjectHandler(records),
		Grades:   NewGradeHandler(records),
		Metrics:  NewMetricsHandler(metrics),
	}
}

// RegisterRoutes mounts the grade API on r.
func RegisterRoutes(r gin.IRouter, h Handlers, tokens middleware.TokenValidator) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.POST("/users/login", h.Auth.Login)
	r.POST("/users", h.Auth.Register)
	r.GET("/schools/public", h.Schools.Public)
	r.POST("/schools", h.Schools.Create)

	auth := r.Group("", middleware.JWT(tokens))
	admin := middleware.RequireRoles(models.RoleAdmin)
	adminOrSelf := middleware.RBAC(string(models.RoleAdmin), middleware.Self)

	auth.GET("/users/me", h.Auth.Me)
	auth.GET("/users", admin, h.Users.List)
	auth.GET("/users/:id", adminOrSelf, h.Users.Get)
	auth.PUT("/users/:id", adminOrSelf, h.Users.Update)
	auth.DELETE("/users/:id", admin, h.Users.Delete)

	auth.GET("/schools", h.Schools.List)
	auth.GET("/schools/:id", h.Schools.Get)
	auth.PUT("/schools/:id", admin, h.Schools.Update)
	auth.DELETE("/schools/:id", admin, h.Schools.Delete)

	auth.GET("/students", h.Students.List)
	auth.POST("/students", h.Students.Create)
	auth.GET("/students/:id", h.Students.Get)
	auth.PUT("/students/:id", h.Students.Update)
	auth.DELETE("/students/:id", h.Students.Delete)

	auth.GET("/subjects", h.Subjects.List)
	auth.POST("/subjects", h.Subjects.Create)
	auth.GET("/subjects/:id", h.Subjects.Get)
	auth.PUT("/subjects/:id", h.Subjects.Update)
	auth.DELETE("/subjects/:id", h.Subjects.Delete)

	auth.GET("/grades", h.Grades.List)
	auth.POST("/grades", h.Grades.Create)
	auth.GET("/grades/:id", h.Grades.Get)
	auth.PUT("/grades/:id", h.Grades.Update)
	auth.DELETE("/grades/:id", h.Grades.Delete)
}
