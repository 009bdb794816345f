package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// RespondWithSuccess sends a 200 response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

// RespondWithMessage sends a 200 response carrying only a message
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{Status: StatusSuccess, Message: message})
}

// RespondWithStatus aborts with an error envelope and an explicit status,
// for failures raised by middleware rather than services.
func RespondWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(message))
}

// RespondWithError maps err to a status code and sends the error envelope.
// Internal errors are logged and reported without their cause.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := apperrors.As(err); ok {
		status = appErr.HTTPStatus()
		if status != http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, NewErrorResponse(message))
}
