package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// SchoolHandler exposes school endpoints.
type SchoolHandler struct {
	records *devapi.Records
}

// NewSchoolHandler constructs SchoolHandler.
func NewSchoolHandler(records *devapi.Records) *SchoolHandler {
	return &SchoolHandler{records: records}
}

// Public handles GET /schools/public, used by the sign-up screens.
func (h *SchoolHandler) Public(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.PublicSchools())
}

// List handles GET /schools.
func (h *SchoolHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.Schools(claimsFromContext(c)))
}

// Get handles GET /schools/:id.
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.records.School(claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school)
}

// Create handles POST /schools.
func (h *SchoolHandler) Create(c *gin.Context) {
	var body struct {
		School models.SchoolInput `json:"school"`
	}
	if !bindJSON(c, &body) {
		return
	}
	school, err := h.records.CreateSchool(body.School)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// Update handles PUT /schools/:id.
func (h *SchoolHandler) Update(c *gin.Context) {
	var body struct {
		School models.SchoolUpdate `json:"school"`
	}
	if !bindJSON(c, &body) {
		return
	}
	school, err := h.records.UpdateSchool(claimsFromContext(c), c.Param("id"), body.School)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school)
}

// Delete handles DELETE /schools/:id.
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.records.DeleteSchool(claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
