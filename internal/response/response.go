// Package response writes the JSON envelopes used by every API handler.
// Failures share the shape {ok: 0, code, message}.
package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-formbuilder/pkg/gateway"
)

// OK sends a 200 response. Slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data any) {
	if data != nil && reflect.ValueOf(data).Kind() == reflect.Slice {
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Error aborts with the envelope for status.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gateway.ErrorResponse{OK: 0, Code: status, Message: message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Invalid sends a 422 response carrying per-field messages.
func Invalid(c *gin.Context, message string, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gateway.ErrorResponse{
		OK:      0,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Errors:  fields,
	})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Too many submissions, slow down")
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err.Error())
}
