package domain

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is a storage unique-constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrContention is a transient storage conflict worth retrying.
	ErrContention = errors.New("storage contention")
)

type RequestFilter struct {
	BarberID string
	Status   string
	Type     string
	Limit    int
}

// Repository is the single system of record for the scheduling core.
// Methods ending in ForUpdate take a row lock and are meant to run inside
// WithinTx.
type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Catalog --------
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	ListWorkingHours(ctx context.Context, barberID string) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, barberID string, rows []models.WorkingHours) error
	GetService(ctx context.Context, barberID, serviceID string) (*models.Service, error)
	GetServiceForUpdate(ctx context.Context, barberID, serviceID string) (*models.Service, error)
	ListServices(ctx context.Context, barberID string) ([]models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error

	// -------- Bookings --------
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBookingForUpdate(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	ListBookingsForDay(ctx context.Context, barberID, date string, statuses []string) ([]models.Booking, error)
	ListBookingsInRange(ctx context.Context, barberID, from, to string, statuses []string) ([]models.Booking, error)
	ListPendingUnpaid(ctx context.Context, limit int) ([]models.Booking, error)

	// -------- Payments ledger --------
	CreatePayment(ctx context.Context, p *models.BookingPayment) error
	ListCapturedPayments(ctx context.Context, bookingID string) ([]models.BookingPayment, error)
	MarkPaymentRefunded(ctx context.Context, paymentID uint, at time.Time) error

	// -------- Requests --------
	CreateRequest(ctx context.Context, r *models.Request) error
	GetRequest(ctx context.Context, id string) (*models.Request, error)
	GetRequestForUpdate(ctx context.Context, id string) (*models.Request, error)
	UpdateRequest(ctx context.Context, r *models.Request) error
	ListRequests(ctx context.Context, f RequestFilter) ([]models.Request, error)
	ListApprovedLeave(ctx context.Context, barberID, from, to string) ([]models.Request, error)
}
