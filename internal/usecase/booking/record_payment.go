package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/payment"
)

type RecordPaymentInput struct {
	BookingID  string
	Amount     int64
	Method     string
	Token      string
	PayerEmail string
	ActorID    string
	// CustomerID, when set, restricts the payment to that customer's own
	// bookings. Anyone else's booking reads as not found.
	CustomerID string
}

type RecordPayment struct {
	deps Deps
}

func NewRecordPayment(deps Deps) *RecordPayment {
	return &RecordPayment{deps: deps.withDefaults()}
}

var errPaymentInFlight = errors.New("another payment for this booking is in progress")

// Execute captures money in three steps. The booking is flagged first so
// hold release leaves it alone, the processor is called with no database
// transaction open, and the result is applied under a row lock.
func (uc *RecordPayment) Execute(ctx context.Context, in RecordPaymentInput) (*models.Booking, error) {
	method, ok := payment.ParseMethod(in.Method)
	if !ok {
		return nil, httperr.Validation("unknown payment method %q", in.Method)
	}
	if err := bookingdomain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Reserve
	// --------------------------------------------------
	b, err := uc.reserve(ctx, in)
	if err != nil {
		return nil, err
	}

	proc, err := uc.deps.Payments.For(method)
	if err != nil {
		releaseInFlight(uc.deps, b.ID)
		return nil, httperr.Unavailable(err)
	}

	// --------------------------------------------------
	// 2. Capture
	// --------------------------------------------------

	captureCtx, cancel := context.WithTimeout(ctx, uc.deps.Policy.PaymentTimeout)
	receipt, err := proc.Capture(captureCtx, payment.Charge{
		BookingID:   b.ID,
		Method:      method,
		Amount:      in.Amount,
		Token:       in.Token,
		PayerEmail:  in.PayerEmail,
		Description: fmt.Sprintf("booking %s %s %s", b.Date, b.StartTime, b.ID),
	})
	cancel()

	if err != nil {
		releaseInFlight(uc.deps, b.ID)
		uc.deps.Logger.Warn("payment capture failed",
			zap.String("booking_id", b.ID),
			zap.String("provider", proc.Name()),
			zap.Int64("amount", in.Amount),
			zap.Error(err),
		)
		return nil, httperr.Unavailable(err)
	}

	// --------------------------------------------------
	// 3. Apply
	// --------------------------------------------------
	paid, err := uc.apply(ctx, b.ID, in, method, receipt)
	if err != nil {
		if httperr.CodeOf(err) != "" && httperr.CodeOf(err) != httperr.CodeUnavailable {
			// The booking changed under us; give the money back.
			if rerr := proc.Refund(context.Background(), payment.RefundOrder{
				Reference: receipt.Reference,
				Amount:    in.Amount,
				Full:      true,
			}); rerr != nil {
				uc.deps.Logger.Error("captured payment could not be applied or refunded",
					zap.String("booking_id", b.ID),
					zap.String("reference", receipt.Reference),
					zap.Error(rerr),
				)
			}
			releaseInFlight(uc.deps, b.ID)
			return nil, err
		}

		uc.deps.Logger.Error("captured payment not recorded",
			zap.String("booking_id", b.ID),
			zap.String("provider", receipt.Provider),
			zap.String("reference", receipt.Reference),
			zap.Int64("amount", in.Amount),
			zap.Error(err),
		)
		return nil, err
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		BarberID: paid.BarberID,
		Action:   "payment_recorded",
		Entity:   "booking",
		EntityID: paid.ID,
		Metadata: map[string]any{
			"amount":         in.Amount,
			"method":         string(method),
			"provider":       receipt.Provider,
			"reference":      receipt.Reference,
			"payment_status": paid.PaymentStatus,
		},
	})

	return paid, nil
}

func (uc *RecordPayment) reserve(ctx context.Context, in RecordPaymentInput) (*models.Booking, error) {
	now := uc.deps.Clock.Now()

	var reserved *models.Booking
	err := uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, in.BookingID)
		if err != nil {
			return notFound(err, in.BookingID)
		}
		if in.CustomerID != "" && b.CustomerID != in.CustomerID {
			return notFound(domain.ErrNotFound, in.BookingID)
		}
		if err := bookingdomain.CanPay(b, in.Amount); err != nil {
			return err
		}
		if b.PaymentInFlightUntil != nil && now.Before(*b.PaymentInFlightUntil) {
			return httperr.Unavailable(errPaymentInFlight)
		}

		// A little past the processor timeout so a slow apply still wins.
		bookingdomain.MarkPaymentInFlight(b, now.Add(uc.deps.Policy.PaymentTimeout+30*time.Second))
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		reserved = b
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return reserved, nil
}

func (uc *RecordPayment) apply(
	ctx context.Context,
	bookingID string,
	in RecordPaymentInput,
	method payment.Method,
	receipt payment.Receipt,
) (*models.Booking, error) {
	op := func() (*models.Booking, error) {
		var out *models.Booking
		err := uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
			b, err := tx.GetBookingForUpdate(ctx, bookingID)
			if err != nil {
				return notFound(err, bookingID)
			}
			if err := confirmOutsideLeave(ctx, tx, b, in.Amount); err != nil {
				return err
			}
			if err := bookingdomain.ApplyPayment(b, in.Amount); err != nil {
				return err
			}
			if err := tx.CreatePayment(ctx, &models.BookingPayment{
				BookingID: b.ID,
				Amount:    in.Amount,
				Method:    string(method),
				Provider:  receipt.Provider,
				Reference: receipt.Reference,
				Status:    "captured",
			}); err != nil {
				return err
			}
			if err := tx.UpdateBooking(ctx, b); err != nil {
				return err
			}
			out = b
			return nil
		})
		if err != nil {
			if httperr.CodeOf(err) != "" {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return out, nil
	}

	b, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return nil, storageErr(err)
	}
	return b, nil
}

// confirmOutsideLeave refuses a payment that would confirm a pending
// booking whose day has since been taken by approved leave.
func confirmOutsideLeave(ctx context.Context, tx domain.Repository, b *models.Booking, amount int64) error {
	if bookingdomain.Status(b.Status) != bookingdomain.StatusPending || b.AmountPaid+amount < b.DownPayment {
		return nil
	}
	leave, err := tx.ListApprovedLeave(ctx, b.BarberID, b.Date, b.Date)
	if err != nil {
		return err
	}
	if len(leave) > 0 {
		return httperr.New(httperr.CodeSlotUnavailable, "barber is on approved leave on %s", b.Date)
	}
	return nil
}

// releaseInFlight clears the in-flight flag after a failed processor call.
// It runs on a fresh context so a cancelled request still unblocks the
// booking.
func releaseInFlight(deps Deps, bookingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		bookingdomain.ClearPaymentInFlight(b)
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		deps.Logger.Warn("payment in-flight flag not cleared",
			zap.String("booking_id", bookingID), zap.Error(err))
	}
}

func notFound(err error, bookingID string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.New(httperr.CodeNotFound, "booking %s not found", bookingID)
	}
	return err
}

// storageErr passes business errors through and hides everything else.
func storageErr(err error) error {
	if httperr.CodeOf(err) != "" {
		return err
	}
	return httperr.Unavailable(err)
}
