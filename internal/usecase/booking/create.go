package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/lock"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
	"github.com/BruksfildServices01/barbershop-core/internal/usecase/availability"
)

const WarningDepositNotCaptured = "deposit_not_captured"

// ======================================================
// INPUT / OUTPUT
// ======================================================

type DepositInput struct {
	Method     string
	Token      string
	PayerEmail string
}

type CreateBookingInput struct {
	CustomerID string
	BarberID   string
	ServiceID  string

	Date      string
	StartTime string
	EndTime   string

	// Deposit, when set, captures the down payment right after the slot
	// is reserved.
	Deposit *DepositInput
}

type CreateBookingOutput struct {
	Booking  *models.Booking
	Warnings []string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps    Deps
	payment *RecordPayment
}

func NewCreateBooking(deps Deps, payment *RecordPayment) *CreateBooking {
	return &CreateBooking{deps: deps.withDefaults(), payment: payment}
}

// errSlotRace marks a unique-index hit; the next attempt re-runs the gate
// and reports the slot as taken.
var errSlotRace = errors.New("slot claimed concurrently")

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(ctx context.Context, in CreateBookingInput) (*CreateBookingOutput, error) {
	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	now := uc.deps.Clock.Now()

	// --------------------------------------------------
	// 2. Critical section, retried on storage races
	// --------------------------------------------------
	op := func() (*models.Booking, error) {
		b, err := uc.reserve(ctx, in, now)
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, domain.ErrDuplicate):
			return nil, errSlotRace
		case errors.Is(err, domain.ErrContention), errors.Is(err, lock.ErrNotAcquired):
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 20 * time.Millisecond
	eb.MaxInterval = 250 * time.Millisecond

	b, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(uc.deps.Policy.RetryAttempts)),
	)
	if err != nil {
		if errors.Is(err, errSlotRace) {
			return nil, httperr.New(httperr.CodeSlotUnavailable, "%s-%s on %s is not available", in.StartTime, in.EndTime, in.Date)
		}
		if httperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, httperr.Unavailable(err)
	}

	// --------------------------------------------------
	// 3. Side effects outside the lock
	// --------------------------------------------------
	uc.deps.Cache.Invalidate(ctx, b.BarberID, b.Date)

	if uc.deps.Holds != nil {
		if err := uc.deps.Holds.ScheduleHoldRelease(ctx, b.ID, *b.HoldExpiresAt); err != nil {
			uc.deps.Logger.Warn("hold release not scheduled, sweeper will pick it up",
				zap.String("booking_id", b.ID), zap.Error(err))
		}
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  in.CustomerID,
		BarberID: b.BarberID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]any{
			"date":         b.Date,
			"start":        b.StartTime,
			"total_price":  b.TotalPrice,
			"down_payment": b.DownPayment,
		},
	})

	out := &CreateBookingOutput{Booking: b}

	// --------------------------------------------------
	// 4. Optional deposit
	// --------------------------------------------------
	if in.Deposit == nil || uc.payment == nil {
		return out, nil
	}

	paid, err := uc.payment.Execute(ctx, RecordPaymentInput{
		BookingID:  b.ID,
		Amount:     b.DownPayment,
		Method:     in.Deposit.Method,
		Token:      in.Deposit.Token,
		PayerEmail: in.Deposit.PayerEmail,
		ActorID:    in.CustomerID,
		CustomerID: in.CustomerID,
	})
	if err != nil {
		// The slot stays held; the customer can retry the payment until
		// the hold runs out.
		uc.deps.Logger.Warn("deposit capture failed",
			zap.String("booking_id", b.ID), zap.Error(err))
		out.Warnings = append(out.Warnings, WarningDepositNotCaptured)
		return out, nil
	}

	out.Booking = paid
	return out, nil
}

func (uc *CreateBooking) validate(in CreateBookingInput) error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return httperr.Validation("customer_id is required")
	}
	if strings.TrimSpace(in.BarberID) == "" || strings.TrimSpace(in.ServiceID) == "" {
		return httperr.Validation("barber_id and service_id are required")
	}

	day, err := timezone.ParseDate(in.Date, uc.deps.Clock.Location())
	if err != nil {
		return httperr.Validation("invalid date %q, expected YYYY-MM-DD", in.Date)
	}

	start, err := calendar.ParseClock(in.StartTime)
	if err != nil {
		return httperr.Validation("invalid start_time %q", in.StartTime)
	}
	end, err := calendar.ParseClock(in.EndTime)
	if err != nil {
		return httperr.Validation("invalid end_time %q", in.EndTime)
	}
	if end <= start {
		return httperr.Validation("end_time must be after start_time")
	}

	startsAt := day.Add(time.Duration(start) * time.Minute)
	if !startsAt.After(uc.deps.Clock.Now()) {
		return httperr.Validation("slot %s %s is in the past", in.Date, in.StartTime)
	}
	return nil
}

// reserve holds the (barber, date) lock for the gate check and the insert.
func (uc *CreateBooking) reserve(ctx context.Context, in CreateBookingInput, now time.Time) (*models.Booking, error) {
	lockCtx, cancel := context.WithTimeout(ctx, uc.deps.Policy.LockWait)
	defer cancel()

	unlock, err := uc.deps.Locker.Lock(lockCtx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *models.Booking
	err = uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		svc, err := tx.GetService(ctx, in.BarberID, in.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.New(httperr.CodeNotFound, "service %s not found for barber %s", in.ServiceID, in.BarberID)
			}
			return err
		}
		if !svc.Active {
			return httperr.Validation("service %s is not offered", svc.ID)
		}

		if err := availability.IsBookable(
			ctx, tx, uc.deps.Clock.Location(),
			in.BarberID, in.Date, in.StartTime, in.EndTime,
			uc.deps.Logger,
		); err != nil {
			return err
		}

		b := bookingdomain.NewBooking(bookingdomain.NewBookingParams{
			ID:              uuid.NewString(),
			CustomerID:      in.CustomerID,
			BarberID:        in.BarberID,
			ServiceID:       svc.ID,
			Date:            in.Date,
			Start:           in.StartTime,
			End:             in.EndTime,
			Price:           svc.Price,
			DownPaymentRate: uc.deps.Policy.DownPaymentRate,
			HoldWindow:      uc.deps.Policy.HoldWindow,
			Now:             now,
		})

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
