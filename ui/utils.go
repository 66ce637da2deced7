package ui

import (
	"log"
	"net/http"

	"datagraph/internal/errors"

	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed API call
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError writes err with the status its error code maps to
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Error: err.Error(),
		Code:  errors.GetCode(err),
	})
}

// badRequest reports a malformed request body
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error: err.Error(),
		Code:  errors.CodeValidationError,
	})
}
