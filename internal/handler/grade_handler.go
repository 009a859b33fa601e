package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	records *devapi.Records
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(records *devapi.Records) *GradeHandler {
	return &GradeHandler{records: records}
}

// List handles GET /grades[?student_id=&subject_id=].
func (h *GradeHandler) List(c *gin.Context) {
	filter := models.GradeFilter{
		StudentID: strings.TrimSpace(c.Query("student_id")),
		SubjectID: strings.TrimSpace(c.Query("subject_id")),
	}
	response.JSON(c, http.StatusOK, h.records.Grades(claimsFromContext(c), filter))
}

// Get handles GET /grades/:id.
func (h *GradeHandler) Get(c *gin.Context) {
	grade, err := h.records.Grade(claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// Create handles POST /grades. A second grade for the same student and
// subject answers 409.
func (h *GradeHandler) Create(c *gin.Context) {
	var body struct {
		Grade models.CreateGradeInput `json:"grade"`
	}
	if !bindJSON(c, &body) {
		return
	}
	grade, err := h.records.CreateGrade(claimsFromContext(c), body.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update handles PUT /grades/:id with one of the add_score,
// score_index/update_score or scores shapes.
func (h *GradeHandler) Update(c *gin.Context) {
	var body struct {
		Grade models.GradeChange `json:"grade"`
	}
	if !bindJSON(c, &body) {
		return
	}
	grade, err := h.records.UpdateGrade(claimsFromContext(c), c.Param("id"), body.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// Delete handles DELETE /grades/:id.
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.records.DeleteGrade(claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
