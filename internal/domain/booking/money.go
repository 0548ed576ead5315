package booking

import (
	"math"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
)

const DefaultDownPaymentRate = 0.30

// RefundPolicy decides how much of the collected money goes back to the
// customer on refund.
type RefundPolicy string

const (
	RefundFull            RefundPolicy = "full"
	RefundKeepDownPayment RefundPolicy = "keep_down_payment"
)

func ParseRefundPolicy(s string) (RefundPolicy, bool) {
	switch p := RefundPolicy(s); p {
	case RefundFull, RefundKeepDownPayment:
		return p, true
	}
	return "", false
}

// DownPayment is round(price * rate) in minor units.
func DownPayment(price int64, rate float64) int64 {
	return int64(math.Round(float64(price) * rate))
}

func PaymentStatusFor(total, paid int64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentNotPaid
	case paid >= total:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// RefundAmount is what the customer gets back for a booking that collected
// paid so far.
func RefundAmount(policy RefundPolicy, paid, downPayment int64) int64 {
	if policy == RefundKeepDownPayment {
		refund := paid - downPayment
		if refund < 0 {
			return 0
		}
		return refund
	}
	return paid
}

func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return httperr.Validation("payment amount must be positive")
	}
	return nil
}
