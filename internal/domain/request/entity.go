package request

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

type LeavePayload struct {
	StartDate string
	EndDate   string
}

type PriceChangePayload struct {
	ServiceID      string
	RequestedPrice int64
}

// ValidateLeave checks a pto/sick range. Dates are inclusive.
func ValidateLeave(p LeavePayload, loc *time.Location, maxDays int) (time.Time, time.Time, error) {
	start, err := timezone.ParseDate(p.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.Validation("invalid start_date %q", p.StartDate)
	}
	end, err := timezone.ParseDate(p.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.Validation("invalid end_date %q", p.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, httperr.Validation("start_date must not be after end_date")
	}
	if maxDays > 0 && len(timezone.DatesBetween(start, end)) > maxDays {
		return time.Time{}, time.Time{}, httperr.Validation("leave range exceeds %d days", maxDays)
	}
	return start, end, nil
}

// ValidatePriceChange compares against the stored service price, which is
// authoritative, never against a client supplied value.
func ValidatePriceChange(p PriceChangePayload, current int64) error {
	if p.ServiceID == "" {
		return httperr.Validation("service_id is required")
	}
	if p.RequestedPrice <= current {
		return httperr.Validation("requested price must be greater than current price %d", current)
	}
	return nil
}

func Approve(r *models.Request, message, actorID string, now time.Time) error {
	if err := CanRespond(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusApproved)
	r.ResponseMessage = strings.TrimSpace(message)
	r.RespondedBy = actorID
	r.RespondedAt = &now
	return nil
}

func Deny(r *models.Request, message, actorID string, now time.Time) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return httperr.New(httperr.CodeResponseRequired, "a response message is required to deny a request")
	}
	if err := CanRespond(Status(r.Status)); err != nil {
		return err
	}
	r.Status = string(StatusDenied)
	r.ResponseMessage = msg
	r.RespondedBy = actorID
	r.RespondedAt = &now
	return nil
}

// CoversDate reports whether an approved leave request blocks date.
func CoversDate(r models.Request, date string) bool {
	if !Type(r.Type).IsLeave() || Status(r.Status) != StatusApproved {
		return false
	}
	return r.StartDate <= date && date <= r.EndDate
}
