package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func StatusFor(code string) int {
	switch code {
	case CodeValidation, CodeInvalidSlot, CodeResponseRequired:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSlotUnavailable, CodeConflictingBookings, CodeIllegalTransition:
		return http.StatusConflict
	case CodeOverpayment, CodeBookingNotPayable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

// FromError renders any error returned by a use case. Unknown errors are
// logged and surfaced as "unavailable" so internals never reach the client.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		zap.L().Error("unclassified error", zap.String("path", c.FullPath()), zap.Error(err))
		Write(c, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable")
		return
	}

	if be.Code == CodeUnavailable {
		zap.L().Warn("request failed", zap.String("path", c.FullPath()), zap.Any("cause", be.Details))
		Write(c, http.StatusServiceUnavailable, be.Code, be.Message)
		return
	}

	c.JSON(StatusFor(be.Code), HTTPError{
		Code:    be.Code,
		Message: be.Message,
		Details: be.Details,
	})
}
