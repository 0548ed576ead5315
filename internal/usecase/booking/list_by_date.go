package booking

import (
	"context"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	"github.com/BruksfildServices01/barbershop-core/internal/dto"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

type ListBookingsByDate struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListBookingsByDate(repo domain.Repository, clock timezone.Clock) *ListBookingsByDate {
	return &ListBookingsByDate{repo: repo, clock: clock}
}

// Execute lists every booking of the day, cancelled ones included.
func (uc *ListBookingsByDate) Execute(ctx context.Context, barberID, date string) ([]dto.BookingListDTO, error) {
	if _, err := timezone.ParseDate(date, uc.clock.Location()); err != nil {
		return nil, httperr.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}

	bookings, err := uc.repo.ListBookingsForDay(ctx, barberID, date, nil)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}

	services, err := uc.repo.ListServices(ctx, barberID)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}
	names := make(map[string]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:               b.ID,
			Date:             b.Date,
			StartTime:        b.StartTime,
			EndTime:          b.EndTime,
			Status:           b.Status,
			PaymentStatus:    b.PaymentStatus,
			CustomerID:       b.CustomerID,
			ServiceID:        b.ServiceID,
			ServiceName:      names[b.ServiceID],
			TotalPrice:       b.TotalPrice,
			RemainingPayment: b.RemainingPayment,
		})
	}
	return out, nil
}
