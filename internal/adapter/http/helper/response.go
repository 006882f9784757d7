package helper

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, code string, message string, errors []response.ValidationError) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:    code,
			Message: message,
			Errors:  errors,
		},
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func SendParseError(c *gin.Context, err error) {
	errors := []response.ValidationError{
		{
			Field:   "body",
			Message: err.Error(),
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("Json parse error: [%s]", err), errors)
}

func SendValidationError(c *gin.Context, violations []response.ValidationError) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Message(violations), violations)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, errors)
}

func SendInternalError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, errors)
}

func SendTooManyRequests(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "rate_limit",
			Message: message,
		},
	}

	SendError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", message, errors)
}

// SendNotFound answers 404 with an empty body.
func SendNotFound(c *gin.Context) {
	c.AbortWithStatus(http.StatusNotFound)
}

// ValidatedJSON decodes the request body into T and validates it. On failure
// the 400 response has already been written and ok is false.
func ValidatedJSON[T any](c *gin.Context) (payload T, ok bool) {
	if err := c.ShouldBindJSON(&payload); err != nil {
		SendParseError(c, err)
		return payload, false
	}

	if violations := validation.Validate(payload); len(violations) > 0 {
		SendValidationError(c, violations)
		return payload, false
	}

	return payload, true
}
