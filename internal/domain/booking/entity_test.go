package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

var now = time.Date(2025, 9, 19, 10, 0, 0, 0, time.UTC)

func newTestBooking() *models.Booking {
	return NewBooking(NewBookingParams{
		ID:              "bk-1",
		CustomerID:      "cust-a",
		BarberID:        "barber-1",
		ServiceID:       "svc-1",
		Date:            "2025-09-20",
		Start:           "09:00",
		End:             "09:30",
		Price:           50000,
		DownPaymentRate: 0.30,
		HoldWindow:      15 * time.Minute,
		Now:             now,
	})
}

func assertConserved(t *testing.T, b *models.Booking) {
	t.Helper()
	if b.AmountPaid+b.RemainingPayment != b.TotalPrice {
		t.Fatalf("paid %d + remaining %d != total %d", b.AmountPaid, b.RemainingPayment, b.TotalPrice)
	}
}

func TestNewBooking_DownPayment(t *testing.T) {
	b := newTestBooking()

	if b.DownPayment != 15000 {
		t.Fatalf("down payment = %d, want 15000", b.DownPayment)
	}
	if b.Status != string(StatusPending) || b.PaymentStatus != string(PaymentNotPaid) {
		t.Fatalf("unexpected initial state %s/%s", b.Status, b.PaymentStatus)
	}
	if b.HoldExpiresAt == nil || !b.HoldExpiresAt.Equal(now.Add(15*time.Minute)) {
		t.Fatalf("hold expiry = %v", b.HoldExpiresAt)
	}
	// Nothing is collected yet, so remaining is the full price, not price minus deposit.
	if b.RemainingPayment != b.TotalPrice {
		t.Fatalf("remaining = %d, want %d", b.RemainingPayment, b.TotalPrice)
	}
	assertConserved(t, b)
}

func TestDownPayment_Rounds(t *testing.T) {
	if got := DownPayment(33333, 0.30); got != 10000 {
		t.Fatalf("DownPayment(33333) = %d, want 10000", got)
	}
	if got := DownPayment(1001, 0.30); got != 300 {
		t.Fatalf("DownPayment(1001) = %d, want 300", got)
	}
}

func TestApplyPayment_ConfirmsOnDownPayment(t *testing.T) {
	b := newTestBooking()

	if err := ApplyPayment(b, 15000); err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if b.Status != string(StatusConfirmed) || b.PaymentStatus != string(PaymentPartial) {
		t.Fatalf("state = %s/%s, want confirmed/partial", b.Status, b.PaymentStatus)
	}
	if b.DownPayment+b.RemainingPayment != b.TotalPrice {
		t.Fatalf("down payment + remaining != total after deposit")
	}
	assertConserved(t, b)

	if err := ApplyPayment(b, 35000); err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if b.PaymentStatus != string(PaymentPaid) || b.RemainingPayment != 0 {
		t.Fatalf("expected fully paid, got %s remaining=%d", b.PaymentStatus, b.RemainingPayment)
	}
	assertConserved(t, b)
}

func TestApplyPayment_SmallPaymentKeepsPending(t *testing.T) {
	b := newTestBooking()

	if err := ApplyPayment(b, 1000); err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if b.Status != string(StatusPending) || b.PaymentStatus != string(PaymentPartial) {
		t.Fatalf("state = %s/%s, want pending/partial", b.Status, b.PaymentStatus)
	}
}

func TestCanPay_Errors(t *testing.T) {
	b := newTestBooking()

	if err := CanPay(b, 0); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("zero amount: got %v", err)
	}
	if err := CanPay(b, 50001); !httperr.IsBusiness(err, httperr.CodeOverpayment) {
		t.Fatalf("overpayment: got %v", err)
	}

	b.Status = string(StatusNoShow)
	if err := CanPay(b, 100); !httperr.IsBusiness(err, httperr.CodeBookingNotPayable) {
		t.Fatalf("no_show: got %v", err)
	}
}

func TestTransition_ConfirmRequiresPayment(t *testing.T) {
	b := newTestBooking()

	if _, err := Transition(b, StatusConfirmed, true, now); !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	if b.Status != string(StatusPending) {
		t.Fatalf("status changed on failure: %s", b.Status)
	}
}

func TestTransition_CompleteUnpaidWarns(t *testing.T) {
	b := newTestBooking()
	b.Status = string(StatusConfirmed)

	warnings, err := Transition(b, StatusCompleted, true, now)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if len(warnings) != 1 || warnings[0] != WarningCompletedUnpaid {
		t.Fatalf("warnings = %v", warnings)
	}
	if b.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
}

func TestTransition_TerminalIsFinal(t *testing.T) {
	b := newTestBooking()
	b.Status = string(StatusCompleted)

	if _, err := Transition(b, StatusCancelled, true, now); !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
}

func TestRefund(t *testing.T) {
	b := newTestBooking()
	_ = ApplyPayment(b, 15000)

	refunded, err := Refund(b, RefundFull, now)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if refunded != 15000 || b.RefundedAmount != 15000 {
		t.Fatalf("refunded = %d", refunded)
	}
	if b.Status != string(StatusCancelled) || b.PaymentStatus != string(PaymentNotPaid) || b.RemainingPayment != 0 {
		t.Fatalf("unexpected state after refund: %s/%s remaining=%d", b.Status, b.PaymentStatus, b.RemainingPayment)
	}

	if _, err := Refund(b, RefundFull, now); !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
		t.Fatalf("double refund: got %v", err)
	}
}

func TestRefundAmount_KeepDownPayment(t *testing.T) {
	if got := RefundAmount(RefundKeepDownPayment, 50000, 15000); got != 35000 {
		t.Fatalf("got %d, want 35000", got)
	}
	if got := RefundAmount(RefundKeepDownPayment, 10000, 15000); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestExpire(t *testing.T) {
	b := newTestBooking()

	if Expire(b, now.Add(10*time.Minute)) {
		t.Fatalf("released before hold elapsed")
	}

	MarkPaymentInFlight(b, now.Add(30*time.Minute))
	if Expire(b, now.Add(20*time.Minute)) {
		t.Fatalf("released while a payment was in flight")
	}

	ClearPaymentInFlight(b)
	if !Expire(b, now.Add(20*time.Minute)) {
		t.Fatalf("expected release after hold elapsed")
	}
	if b.Status != string(StatusCancelled) || b.CancelReason != CancelReasonHoldExpired {
		t.Fatalf("unexpected state %s/%s", b.Status, b.CancelReason)
	}
}

func TestExpire_PaidBookingIsKept(t *testing.T) {
	b := newTestBooking()
	_ = ApplyPayment(b, 1000)

	if Expire(b, now.Add(time.Hour)) {
		t.Fatalf("a booking with money collected must not be released")
	}
}
