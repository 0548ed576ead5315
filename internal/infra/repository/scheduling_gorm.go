package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

func (r *SchedulingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SchedulingGormRepository{db: tx})
	})
	return translate(err)
}

func (r *SchedulingGormRepository) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBarber(
	ctx context.Context,
	id string,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &barber, nil
}

func (r *SchedulingGormRepository) ListWorkingHours(
	ctx context.Context,
	barberID string,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, translate(err)
	}
	return hours, nil
}

func (r *SchedulingGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	barberID string,
	rows []models.WorkingHours,
) error {

	return r.WithinTx(ctx, func(tx domain.Repository) error {
		db := tx.(*SchedulingGormRepository).db.WithContext(ctx)

		if err := db.Where("barber_id = ?", barberID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].BarberID = barberID
		}
		return db.Create(&rows).Error
	})
}

func (r *SchedulingGormRepository) GetService(
	ctx context.Context,
	barberID string,
	serviceID string,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", serviceID, barberID).
		First(&svc).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

func (r *SchedulingGormRepository) GetServiceForUpdate(
	ctx context.Context,
	barberID string,
	serviceID string,
) (*models.Service, error) {

	var svc models.Service
	if err := r.forUpdate(ctx).
		Where("id = ? AND barber_id = ?", serviceID, barberID).
		First(&svc).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

func (r *SchedulingGormRepository) ListServices(
	ctx context.Context,
	barberID string,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (r *SchedulingGormRepository) CreateService(
	ctx context.Context,
	s *models.Service,
) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SchedulingGormRepository) UpdateService(
	ctx context.Context,
	s *models.Service,
) error {
	return translate(r.db.WithContext(ctx).Save(s).Error)
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *SchedulingGormRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *SchedulingGormRepository) GetBookingForUpdate(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.forUpdate(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *SchedulingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

func (r *SchedulingGormRepository) ListBookingsForDay(
	ctx context.Context,
	barberID string,
	date string,
	statuses []string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var bookings []models.Booking
	if err := q.
		Order("start_time ASC").
		Order("id ASC").
		Find(&bookings).Error; err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

func (r *SchedulingGormRepository) ListBookingsInRange(
	ctx context.Context,
	barberID string,
	from string,
	to string,
	statuses []string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where("barber_id = ? AND date >= ? AND date <= ?", barberID, from, to)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var bookings []models.Booking
	if err := q.
		Order("date ASC").
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

// ListPendingUnpaid returns hold-release candidates. Expiry is checked by
// the caller against the business clock.
func (r *SchedulingGormRepository) ListPendingUnpaid(
	ctx context.Context,
	limit int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("status = ? AND amount_paid = 0 AND hold_expires_at IS NOT NULL", "pending").
		Order("created_at ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

// --------------------------------------------------
// Payments ledger
// --------------------------------------------------

func (r *SchedulingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.BookingPayment,
) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *SchedulingGormRepository) ListCapturedPayments(
	ctx context.Context,
	bookingID string,
) ([]models.BookingPayment, error) {

	var payments []models.BookingPayment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, "captured").
		Order("id ASC").
		Find(&payments).Error; err != nil {
		return nil, translate(err)
	}
	return payments, nil
}

func (r *SchedulingGormRepository) MarkPaymentRefunded(
	ctx context.Context,
	paymentID uint,
	at time.Time,
) error {
	return translate(r.db.WithContext(ctx).
		Model(&models.BookingPayment{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"status":      "refunded",
			"refunded_at": at,
		}).Error)
}

// --------------------------------------------------
// Requests
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateRequest(
	ctx context.Context,
	req *models.Request,
) error {
	return translate(r.db.WithContext(ctx).Create(req).Error)
}

func (r *SchedulingGormRepository) GetRequest(
	ctx context.Context,
	id string,
) (*models.Request, error) {

	var req models.Request
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *SchedulingGormRepository) GetRequestForUpdate(
	ctx context.Context,
	id string,
) (*models.Request, error) {

	var req models.Request
	if err := r.forUpdate(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *SchedulingGormRepository) UpdateRequest(
	ctx context.Context,
	req *models.Request,
) error {
	return translate(r.db.WithContext(ctx).Save(req).Error)
}

func (r *SchedulingGormRepository) ListRequests(
	ctx context.Context,
	f domain.RequestFilter,
) ([]models.Request, error) {

	q := r.db.WithContext(ctx).Model(&models.Request{})
	if f.BarberID != "" {
		q = q.Where("barber_id = ?", f.BarberID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var reqs []models.Request
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

func (r *SchedulingGormRepository) ListApprovedLeave(
	ctx context.Context,
	barberID string,
	from string,
	to string,
) ([]models.Request, error) {

	var reqs []models.Request
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND status = ? AND type IN ? AND start_date <= ? AND end_date >= ?",
			barberID,
			string(request.StatusApproved),
			[]string{string(request.TypePTO), string(request.TypeSick)},
			to,
			from,
		).
		Order("start_date ASC").
		Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
