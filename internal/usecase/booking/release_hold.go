package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

const sweepBatch = 200

// ReleaseHold frees slots of pending bookings nobody paid for. It takes the
// same (barber, date) lock as booking creation and decides under a row
// lock, so a payment that arrives at the deadline is never overwritten.
type ReleaseHold struct {
	deps Deps
}

func NewReleaseHold(deps Deps) *ReleaseHold {
	return &ReleaseHold{deps: deps.withDefaults()}
}

func (uc *ReleaseHold) Release(ctx context.Context, bookingID string) (bool, error) {
	b, err := uc.deps.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !bookingdomain.HoldReleasable(b, uc.deps.Clock.Now()) {
		return false, nil
	}

	lockCtx, cancel := context.WithTimeout(ctx, uc.deps.Policy.LockWait)
	defer cancel()

	unlock, err := uc.deps.Locker.Lock(lockCtx, b.BarberID, b.Date)
	if err != nil {
		return false, err
	}
	defer unlock()

	var released *models.Booking
	err = uc.deps.Repo.WithinTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !bookingdomain.Expire(cur, uc.deps.Clock.Now()) {
			return nil
		}
		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}
		released = cur
		return nil
	})
	if err != nil || released == nil {
		return false, err
	}

	uc.deps.Cache.Invalidate(ctx, released.BarberID, released.Date)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  "system",
		BarberID: released.BarberID,
		Action:   "booking_hold_expired",
		Entity:   "booking",
		EntityID: released.ID,
	})

	return true, nil
}

// SweepExpired releases every expired hold in one pass.
func (uc *ReleaseHold) SweepExpired(ctx context.Context) (int, error) {
	candidates, err := uc.deps.Repo.ListPendingUnpaid(ctx, sweepBatch)
	if err != nil {
		return 0, err
	}

	now := uc.deps.Clock.Now()
	n := 0
	for i := range candidates {
		if !bookingdomain.HoldReleasable(&candidates[i], now) {
			continue
		}
		ok, err := uc.Release(ctx, candidates[i].ID)
		if err != nil {
			uc.deps.Logger.Warn("hold release failed",
				zap.String("booking_id", candidates[i].ID), zap.Error(err))
			continue
		}
		if ok {
			n++
		}
	}
	return n, nil
}
