package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type apiError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newNotFoundError() apiError {
	return newAPIError(http.StatusNotFound, "task not found")
}

func newValidationError(fields map[string]string) apiError {
	err := newAPIError(http.StatusBadRequest, "validation failed")
	err.Fields = fields
	return err
}
