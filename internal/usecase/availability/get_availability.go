package availability

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/cache"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	projection "github.com/BruksfildServices01/barbershop-core/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo   domain.Repository
	cache  cache.AvailabilityCache
	clock  timezone.Clock
	logger *zap.Logger
}

func NewGetAvailability(
	repo domain.Repository,
	c cache.AvailabilityCache,
	clock timezone.Clock,
	logger *zap.Logger,
) *GetAvailability {
	if c == nil {
		c = cache.Nop{}
	}
	return &GetAvailability{repo: repo, cache: c, clock: clock, logger: logger}
}

// Execute is the display read. It may return a projection up to the cache
// TTL old.
func (uc *GetAvailability) Execute(ctx context.Context, barberID, date string) (*projection.Availability, error) {
	if _, err := timezone.ParseDate(date, uc.clock.Location()); err != nil {
		return nil, httperr.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}

	if a, ok := uc.cache.Get(ctx, barberID, date); ok {
		return a, nil
	}

	a, err := Compute(ctx, uc.repo, uc.clock.Location(), barberID, date, uc.logger)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, *a)
	return a, nil
}

// ======================================================
// GATE
// ======================================================

// IsBookable is the only gate in front of booking creation. It always reads
// repo directly; pass the transaction-scoped repository.
func IsBookable(
	ctx context.Context,
	repo domain.Repository,
	loc *time.Location,
	barberID, date, start, end string,
	logger *zap.Logger,
) error {
	a, err := Compute(ctx, repo, loc, barberID, date, logger)
	if err != nil {
		return err
	}

	found, open := a.IsOpen(start, end)
	if !found {
		return httperr.New(httperr.CodeInvalidSlot, "%s-%s is not a slot on %s", start, end, date)
	}
	if !open {
		return httperr.New(httperr.CodeSlotUnavailable, "%s-%s on %s is not available", start, end, date)
	}
	return nil
}

// Compute builds the projection from the systems of record.
func Compute(
	ctx context.Context,
	repo domain.Repository,
	loc *time.Location,
	barberID, date string,
	logger *zap.Logger,
) (*projection.Availability, error) {
	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return nil, httperr.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}

	barber, err := repo.GetBarber(ctx, barberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.New(httperr.CodeNotFound, "barber %s not found", barberID)
		}
		return nil, err
	}

	rows, err := repo.ListWorkingHours(ctx, barberID)
	if err != nil {
		return nil, err
	}

	slots, err := calendar.GenerateSlots(
		calendar.TemplateFromModels(rows),
		day,
		time.Duration(barber.SlotMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}

	bookings, err := repo.ListBookingsForDay(ctx, barberID, date, booking.ActiveStatuses())
	if err != nil {
		return nil, err
	}

	leaves, err := repo.ListApprovedLeave(ctx, barberID, date, date)
	if err != nil {
		return nil, err
	}

	a := projection.Project(barberID, date, slots, bookings, leaves, logger)
	return &a, nil
}
