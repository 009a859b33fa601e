package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	records *devapi.Records
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(records *devapi.Records) *SubjectHandler {
	return &SubjectHandler{records: records}
}

// List handles GET /subjects.
func (h *SubjectHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.Subjects(claimsFromContext(c)))
}

// Get handles GET /subjects/:id.
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.records.Subject(claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Create handles POST /subjects.
func (h *SubjectHandler) Create(c *gin.Context) {
	var body struct {
		Subject models.SubjectInput `json:"subject"`
	}
	if !bindJSON(c, &body) {
		return
	}
	subject, err := h.records.CreateSubject(claimsFromContext(c), body.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update handles PUT /subjects/:id.
func (h *SubjectHandler) Update(c *gin.Context) {
	var body struct {
		Subject models.SubjectUpdate `json:"subject"`
	}
	if !bindJSON(c, &body) {
		return
	}
	subject, err := h.records.UpdateSubject(claimsFromContext(c), c.Param("id"), body.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Delete handles DELETE /subjects/:id.
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.records.DeleteSubject(claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
