package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// ErrorBody is the failure contract of the grade API: a single error or a
// list of field messages.
type ErrorBody struct {
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// JSON sends data as the bare body. Record keys are written as "_id", the way
// the document store behind the remote API names them.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, documentKeys(data))
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response. Internal failures never reach the body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")

	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		c.JSON(status, ErrorBody{Error: "internal server error"})
		return
	}
	if len(appErr.Messages) > 0 {
		c.JSON(status, ErrorBody{Errors: appErr.Messages})
		return
	}
	c.JSON(status, ErrorBody{Error: appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// documentKeys renames every "id" key to "_id". Values that do not survive
// a JSON round trip are returned unchanged.
func documentKeys(data interface{}) interface{} {
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return data
	}
	return renameIDs(tree)
}

func renameIDs(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			v[key] = renameIDs(child)
		}
		if id, ok := v["id"]; ok {
			delete(v, "id")
			v["_id"] = id
		}
		return v
	case []interface{}:
		for i, child := range v {
			v[i] = renameIDs(child)
		}
		return v
	default:
		return v
	}
}
