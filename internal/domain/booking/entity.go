package booking

import (
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

const (
	CancelReasonManual      = "cancelled"
	CancelReasonRefunded    = "refunded"
	CancelReasonHoldExpired = "hold_expired"

	WarningCompletedUnpaid = "completed_without_payment"
)

type NewBookingParams struct {
	ID         string
	CustomerID string
	BarberID   string
	ServiceID  string
	Date       string
	Start      string
	End        string

	Price           int64
	DownPaymentRate float64
	HoldWindow      time.Duration
	Now             time.Time
}

// NewBooking snapshots the service price and derives the payment split.
// Nothing is collected yet, so the whole price is still outstanding.
func NewBooking(p NewBookingParams) *models.Booking {
	holdUntil := p.Now.Add(p.HoldWindow)

	return &models.Booking{
		ID:               p.ID,
		CustomerID:       p.CustomerID,
		BarberID:         p.BarberID,
		ServiceID:        p.ServiceID,
		Date:             p.Date,
		StartTime:        p.Start,
		EndTime:          p.End,
		Status:           string(StatusPending),
		PaymentStatus:    string(PaymentNotPaid),
		TotalPrice:       p.Price,
		DownPayment:      DownPayment(p.Price, p.DownPaymentRate),
		AmountPaid:       0,
		RemainingPayment: p.Price,
		HoldExpiresAt:    &holdUntil,
	}
}

// CanPay checks a payment against the booking before any money moves.
func CanPay(b *models.Booking, amount int64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	switch Status(b.Status) {
	case StatusCancelled, StatusNoShow:
		return httperr.New(httperr.CodeBookingNotPayable, "booking is %s", b.Status)
	}

	if amount > b.RemainingPayment {
		return httperr.WithDetails(
			httperr.CodeOverpayment,
			"amount exceeds remaining balance",
			map[string]int64{"remaining_payment": b.RemainingPayment, "amount": amount},
		)
	}
	return nil
}

// ApplyPayment books a captured amount. A pending booking whose down
// payment is covered becomes confirmed.
func ApplyPayment(b *models.Booking, amount int64) error {
	if err := CanPay(b, amount); err != nil {
		return err
	}

	b.AmountPaid += amount
	b.RemainingPayment = b.TotalPrice - b.AmountPaid
	b.PaymentStatus = string(PaymentStatusFor(b.TotalPrice, b.AmountPaid))
	b.PaymentInFlightUntil = nil

	if Status(b.Status) == StatusPending && b.AmountPaid >= b.DownPayment {
		b.Status = string(StatusConfirmed)
		b.HoldExpiresAt = nil
	}
	return nil
}

// Transition applies a ChangeStatus request. Warnings are guardrails the
// caller should show but that do not block the change.
func Transition(b *models.Booking, target Status, requirePaymentToComplete bool, now time.Time) ([]string, error) {
	action, err := ActionFor(target)
	if err != nil {
		return nil, err
	}

	current := Status(b.Status)
	if !ValidTransition(action, current) {
		return nil, httperr.New(httperr.CodeIllegalTransition, "cannot move booking from %s to %s", current, target)
	}

	var warnings []string
	switch action {
	case ActionConfirm:
		if PaymentStatus(b.PaymentStatus) == PaymentNotPaid {
			return nil, httperr.New(httperr.CodeIllegalTransition, "booking cannot be confirmed before a payment is recorded")
		}
		b.HoldExpiresAt = nil
	case ActionComplete:
		if requirePaymentToComplete && PaymentStatus(b.PaymentStatus) == PaymentNotPaid {
			warnings = append(warnings, WarningCompletedUnpaid)
		}
		b.CompletedAt = &now
	case ActionCancel:
		b.CancelledAt = &now
		b.CancelReason = CancelReasonManual
	case ActionNoShow:
		b.HoldExpiresAt = nil
	}

	b.Status = string(target)
	return warnings, nil
}

// Refund reverses the booking in one step: cancelled, nothing owed, and
// the refunded amount recorded per policy.
func Refund(b *models.Booking, policy RefundPolicy, now time.Time) (int64, error) {
	if !ValidTransition(ActionRefund, Status(b.Status)) {
		return 0, httperr.New(httperr.CodeIllegalTransition, "cannot refund a %s booking", b.Status)
	}

	refunded := RefundAmount(policy, b.AmountPaid, b.DownPayment)

	b.Status = string(StatusCancelled)
	b.PaymentStatus = string(PaymentNotPaid)
	b.RemainingPayment = 0
	b.RefundedAmount = refunded
	b.CancelledAt = &now
	b.CancelReason = CancelReasonRefunded
	b.HoldExpiresAt = nil

	return refunded, nil
}

// HoldReleasable reports whether a pending booking can be reclaimed: no
// money collected, hold elapsed, and no capture currently in flight.
func HoldReleasable(b *models.Booking, now time.Time) bool {
	if !ValidTransition(ActionExpire, Status(b.Status)) {
		return false
	}
	if b.AmountPaid > 0 || b.HoldExpiresAt == nil || now.Before(*b.HoldExpiresAt) {
		return false
	}
	if b.PaymentInFlightUntil != nil && now.Before(*b.PaymentInFlightUntil) {
		return false
	}
	return true
}

func Expire(b *models.Booking, now time.Time) bool {
	if !HoldReleasable(b, now) {
		return false
	}
	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancelReason = CancelReasonHoldExpired
	b.HoldExpiresAt = nil
	return true
}

// MarkPaymentInFlight protects a booking from hold release while a capture
// is outstanding.
func MarkPaymentInFlight(b *models.Booking, until time.Time) {
	b.PaymentInFlightUntil = &until
}

func ClearPaymentInFlight(b *models.Booking) {
	b.PaymentInFlightUntil = nil
}
