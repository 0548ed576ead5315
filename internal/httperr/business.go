package httperr

import (
	"errors"
	"fmt"
)

// Business error codes. The set is closed: callers switch on these values.
const (
	CodeValidation          = "validation_error"
	CodeSlotUnavailable     = "slot_unavailable"
	CodeInvalidSlot         = "invalid_slot"
	CodeOverpayment         = "overpayment_rejected"
	CodeBookingNotPayable   = "booking_not_payable"
	CodeConflictingBookings = "conflicting_bookings_exist"
	CodeResponseRequired    = "response_required"
	CodeIllegalTransition   = "illegal_transition"
	CodeNotFound            = "not_found"
	CodeUnavailable         = "unavailable"
)

type BusinessError struct {
	Code    string
	Message string
	Details any
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func New(code, format string, args ...any) error {
	return BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WithDetails(code, message string, details any) error {
	return BusinessError{Code: code, Message: message, Details: details}
}

func Validation(format string, args ...any) error {
	return New(CodeValidation, format, args...)
}

// Unavailable wraps storage faults and exhausted retries so they never leak
// as business outcomes.
func Unavailable(cause error) error {
	return BusinessError{Code: CodeUnavailable, Message: "service temporarily unavailable", Details: causeString(cause)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func causeString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
