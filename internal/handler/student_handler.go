package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	records *devapi.Records
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(records *devapi.Records) *StudentHandler {
	return &StudentHandler{records: records}
}

// List handles GET /students.
func (h *StudentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.Students(claimsFromContext(c)))
}

// Get handles GET /students/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.records.Student(claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create handles POST /students.
func (h *StudentHandler) Create(c *gin.Context) {
	var body struct {
		Student models.StudentInput `json:"student"`
	}
	if !bindJSON(c, &body) {
		return
	}
	student, err := h.records.CreateStudent(claimsFromContext(c), body.Student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update handles PUT /students/:id.
func (h *StudentHandler) Update(c *gin.Context) {
	var body struct {
		Student models.StudentUpdate `json:"student"`
	}
	if !bindJSON(c, &body) {
		return
	}
	student, err := h.records.UpdateStudent(claimsFromContext(c), c.Param("id"), body.Student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete handles DELETE /students/:id.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.records.DeleteStudent(claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
