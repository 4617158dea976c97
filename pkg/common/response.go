package common

import (
	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Meta carries list metadata
type Meta struct {
	Count int `json:"count"`
}

// SuccessResponse writes a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

// SuccessResponseWithMeta writes a 200 response with data and metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(200, Response{Success: true, Data: data, Meta: meta})
}

// ErrorResponse writes an error response with the given status
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   &ErrorInfo{Code: statusCode, Message: message},
	})
}

// ValidationErrorResponse writes a 400 response listing invalid fields
func ValidationErrorResponse(c *gin.Context, message string, fields map[string]string) {
	c.JSON(400, Response{
		Success: false,
		Error:   &ErrorInfo{Code: 400, Message: message, Fields: fields},
	})
}

// AppErrorResponse writes the response for an AppError, hiding wrapped internals
func AppErrorResponse(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	ErrorResponse(c, appErr.Code, appErr.Message)
}
