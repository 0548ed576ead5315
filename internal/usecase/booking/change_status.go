package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

type ChangeStatusInput struct {
	BookingID string
	Status    string
	ActorID   string
	// BarberID, when set, limits the change to that barber's bookings.
	BarberID  string
}

type ChangeStatusOutput struct {
	Booking  *models.Booking
	Warnings []string
}

type ChangeStatus struct {
	deps Deps
}

func NewChangeStatus(deps Deps) *ChangeStatus {
	return &ChangeStatus{deps: deps.withDefaults()}
}

func (uc *ChangeStatus) Execute(ctx context.Context, in ChangeStatusInput) (*ChangeStatusOutput, error) {
	target, ok := bookingdomain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.Validation("unknown booking status %q", in.Status)
	}

	now := uc.deps.Clock.Now()

	var (
		b        *models.Booking
		from     string
		warnings []string
	)
	err := uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBookingForUpdate(ctx, in.BookingID)
		if err != nil {
			return notFound(err, in.BookingID)
		}
		if in.BarberID != "" && b.BarberID != in.BarberID {
			return notFound(domain.ErrNotFound, in.BookingID)
		}

		from = b.Status
		warnings, err = bookingdomain.Transition(b, target, uc.deps.Policy.RequirePaymentToComplete, now)
		if err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, storageErr(err)
	}

	if len(warnings) > 0 {
		uc.deps.Logger.Warn("booking status changed with warnings",
			zap.String("booking_id", b.ID),
			zap.String("status", b.Status),
			zap.Strings("warnings", warnings),
		)
	}

	if target == bookingdomain.StatusCancelled {
		uc.deps.Cache.Invalidate(ctx, b.BarberID, b.Date)
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		BarberID: b.BarberID,
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]any{"from": from, "to": b.Status, "warnings": warnings},
	})

	return &ChangeStatusOutput{Booking: b, Warnings: warnings}, nil
}
