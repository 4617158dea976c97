package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/validation"
)

// ValidateQuery binds query parameters to req and validates it
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return err
	}
	return validation.ValidateStruct(req)
}

// RespondWithValidationError sends a standardized validation error response
func RespondWithValidationError(c *gin.Context, err error) {
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		common.ValidationErrorResponse(c, "validation failed", valErr.Errors)
		return
	}
	common.ValidationErrorResponse(c, "invalid query parameters", map[string]string{"query": err.Error()})
}

// ValidateAndBindQuery validates and binds query parameters to the provided struct.
// Returns false after writing a 400 response when validation fails.
func ValidateAndBindQuery(c *gin.Context, req interface{}) bool {
	if err := ValidateQuery(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}
