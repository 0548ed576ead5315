package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/payment"
)

type RefundInput struct {
	BookingID string
	ActorID   string
}

type Refund struct {
	deps Deps
}

func NewRefund(deps Deps) *Refund {
	return &Refund{deps: deps.withDefaults()}
}

var (
	errBookingChanged = errors.New("booking changed while the refund was being issued")
	errMoneyInFlight  = errors.New("a payment or refund for this booking is in progress")
)

// Execute gives money back through the processors that took it, then
// reverses the booking in a single transaction. The booking is claimed
// under its row lock before any processor is called, so a second refund
// cannot issue money back twice.
func (uc *Refund) Execute(ctx context.Context, in RefundInput) (*models.Booking, error) {
	// --------------------------------------------------
	// 1. Claim
	// --------------------------------------------------
	b, err := uc.claim(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	captured, err := uc.deps.Repo.ListCapturedPayments(ctx, b.ID)
	if err != nil {
		releaseInFlight(uc.deps, b.ID)
		return nil, httperr.Unavailable(err)
	}

	amount := bookingdomain.RefundAmount(uc.deps.Policy.RefundPolicy, b.AmountPaid, b.DownPayment)

	// --------------------------------------------------
	// 2. Processor refunds
	// --------------------------------------------------
	issueCtx, cancel := context.WithTimeout(ctx, uc.deps.Policy.PaymentTimeout)
	refunded, err := uc.issue(issueCtx, captured, amount)
	cancel()
	if err != nil {
		if len(refunded) > 0 {
			uc.deps.Logger.Error("refund stopped part way through",
				zap.String("booking_id", b.ID),
				zap.Int("payments_refunded", len(refunded)),
				zap.Error(err),
			)
		}
		releaseInFlight(uc.deps, b.ID)
		return nil, httperr.Unavailable(err)
	}

	// --------------------------------------------------
	// 3. Reverse
	// --------------------------------------------------
	now := uc.deps.Clock.Now()
	paidAtClaim := b.AmountPaid

	var out *models.Booking
	err = uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, in.BookingID)
		if err != nil {
			return notFound(err, in.BookingID)
		}
		if cur.AmountPaid != paidAtClaim {
			return errBookingChanged
		}
		if _, err := bookingdomain.Refund(cur, uc.deps.Policy.RefundPolicy, now); err != nil {
			return err
		}
		bookingdomain.ClearPaymentInFlight(cur)
		for _, id := range refunded {
			if err := tx.MarkPaymentRefunded(ctx, id, now); err != nil {
				return err
			}
		}
		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		if len(refunded) > 0 {
			uc.deps.Logger.Error("processor refunds issued but booking not reversed",
				zap.String("booking_id", in.BookingID),
				zap.Int64("amount", amount),
				zap.Error(err),
			)
		}
		return nil, storageErr(err)
	}

	uc.deps.Cache.Invalidate(ctx, out.BarberID, out.Date)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		BarberID: out.BarberID,
		Action:   "booking_refunded",
		Entity:   "booking",
		EntityID: out.ID,
		Metadata: map[string]any{
			"refunded_amount": out.RefundedAmount,
			"policy":          string(uc.deps.Policy.RefundPolicy),
		},
	})

	return out, nil
}

// claim checks the booking can be refunded and flags it in flight, which
// turns away concurrent refunds and payments until the reversal commits.
func (uc *Refund) claim(ctx context.Context, bookingID string) (*models.Booking, error) {
	now := uc.deps.Clock.Now()

	var claimed *models.Booking
	err := uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, bookingID)
		}
		if !bookingdomain.ValidTransition(bookingdomain.ActionRefund, bookingdomain.Status(b.Status)) {
			return httperr.New(httperr.CodeIllegalTransition, "cannot refund a %s booking", b.Status)
		}
		if b.PaymentInFlightUntil != nil && now.Before(*b.PaymentInFlightUntil) {
			return httperr.Unavailable(errMoneyInFlight)
		}

		bookingdomain.MarkPaymentInFlight(b, now.Add(uc.deps.Policy.PaymentTimeout+30*time.Second))
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		claimed = b
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return claimed, nil
}

// issue spreads amount over the captured payments, newest first, and returns
// the ledger ids it touched.
func (uc *Refund) issue(ctx context.Context, captured []models.BookingPayment, amount int64) ([]uint, error) {
	sorted := append([]models.BookingPayment(nil), captured...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})

	var touched []uint
	left := amount
	for _, p := range sorted {
		if left <= 0 {
			break
		}
		part := p.Amount
		if part > left {
			part = left
		}

		proc := uc.deps.Payments.ByName(p.Provider)
		err := proc.Refund(ctx, payment.RefundOrder{
			Reference: p.Reference,
			Amount:    part,
			Full:      part == p.Amount,
		})
		if err != nil {
			return touched, fmt.Errorf("refund payment %d via %s: %w", p.ID, proc.Name(), err)
		}

		touched = append(touched, p.ID)
		left -= part
	}
	return touched, nil
}
