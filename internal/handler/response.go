package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Success writes the standard success envelope.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// Error maps a service error onto the standard error envelope, using the
// AppError status when available.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(status, NewErrorResponse(message))
}

// BadRequest reports a malformed request body or query parameter.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(message))
}
