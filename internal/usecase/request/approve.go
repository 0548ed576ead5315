package request

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/cache"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	requestdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/lock"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

type ApproveInput struct {
	RequestID       string
	ResponseMessage string
	ActorID         string

	// Override approves leave even when confirmed or completed bookings
	// fall inside the range. Those bookings are left untouched.
	Override bool
}

// ConflictDetails is carried by a conflicting_bookings_exist error.
type ConflictDetails struct {
	BookingIDs []string `json:"booking_ids"`
}

type Approve struct {
	repo     domain.Repository
	locker   lock.Locker
	cache    cache.AvailabilityCache
	clock    timezone.Clock
	audit    *audit.Dispatcher
	logger   *zap.Logger
	lockWait time.Duration
}

func NewApprove(
	repo domain.Repository,
	locker lock.Locker,
	c cache.AvailabilityCache,
	clock timezone.Clock,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	lockWait time.Duration,
) *Approve {
	if c == nil {
		c = cache.Nop{}
	}
	if lockWait <= 0 {
		lockWait = 10 * time.Second
	}
	return &Approve{
		repo:     repo,
		locker:   locker,
		cache:    c,
		clock:    clock,
		audit:    audit,
		logger:   logger,
		lockWait: lockWait,
	}
}

func (uc *Approve) Execute(ctx context.Context, in ApproveInput) (*models.Request, error) {
	r, err := uc.repo.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, requestErr(err, in.RequestID)
	}
	if err := requestdomain.CanRespond(requestdomain.Status(r.Status)); err != nil {
		return nil, err
	}

	var approved *models.Request
	if requestdomain.Type(r.Type).IsLeave() {
		approved, err = uc.approveLeave(ctx, r, in)
	} else {
		approved, err = uc.approvePriceChange(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		BarberID: approved.BarberID,
		Action:   "request_approved",
		Entity:   "request",
		EntityID: approved.ID,
		Metadata: map[string]any{"type": approved.Type, "override": in.Override},
	})

	return approved, nil
}

// approveLeave locks every day of the range so no booking can land in it
// between the conflict check and the commit.
func (uc *Approve) approveLeave(ctx context.Context, snapshot *models.Request, in ApproveInput) (*models.Request, error) {
	loc := uc.clock.Location()
	start, err := timezone.ParseDate(snapshot.StartDate, loc)
	if err != nil {
		return nil, httperr.Validation("stored start_date %q is invalid", snapshot.StartDate)
	}
	end, err := timezone.ParseDate(snapshot.EndDate, loc)
	if err != nil {
		return nil, httperr.Validation("stored end_date %q is invalid", snapshot.EndDate)
	}
	dates := timezone.DatesBetween(start, end)

	lockCtx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()

	unlock, err := lock.LockDays(lockCtx, uc.locker, snapshot.BarberID, dates)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}
	defer unlock()

	now := uc.clock.Now()

	var out *models.Request
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		r, err := tx.GetRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return requestErr(err, in.RequestID)
		}

		// Pending bookings count: their deposit may still confirm them.
		conflicts, err := tx.ListBookingsInRange(ctx, r.BarberID, r.StartDate, r.EndDate, bookingdomain.ActiveStatuses())
		if err != nil {
			return err
		}

		if len(conflicts) > 0 {
			ids := make([]string, len(conflicts))
			for i, b := range conflicts {
				ids[i] = b.ID
			}
			if !in.Override {
				return httperr.WithDetails(
					httperr.CodeConflictingBookings,
					"active bookings exist in the leave range",
					ConflictDetails{BookingIDs: ids},
				)
			}
			raw, err := json.Marshal(ids)
			if err != nil {
				return err
			}
			r.OverriddenBookings = datatypes.JSON(raw)
		}

		if err := requestdomain.Approve(r, in.ResponseMessage, in.ActorID, now); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	uc.cache.Invalidate(ctx, out.BarberID, dates...)

	if len(out.OverriddenBookings) > 0 {
		uc.logger.Warn("leave approved over existing bookings",
			zap.String("request_id", out.ID),
			zap.String("barber_id", out.BarberID),
			zap.ByteString("booking_ids", out.OverriddenBookings),
		)
	}
	return out, nil
}

// approvePriceChange moves the service price and the request together.
// Existing bookings keep the price they were created with.
func (uc *Approve) approvePriceChange(ctx context.Context, in ApproveInput) (*models.Request, error) {
	now := uc.clock.Now()

	var out *models.Request
	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		r, err := tx.GetRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return requestErr(err, in.RequestID)
		}
		if err := requestdomain.CanRespond(requestdomain.Status(r.Status)); err != nil {
			return err
		}

		svc, err := tx.GetServiceForUpdate(ctx, r.BarberID, r.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.New(httperr.CodeNotFound, "service %s no longer exists", r.ServiceID)
			}
			return err
		}
		if svc.Price != r.CurrentPrice {
			uc.logger.Warn("service price moved since the request was submitted",
				zap.String("request_id", r.ID),
				zap.Int64("submitted_price", r.CurrentPrice),
				zap.Int64("current_price", svc.Price),
			)
		}

		svc.Price = r.RequestedPrice
		if err := tx.UpdateService(ctx, svc); err != nil {
			return err
		}

		if err := requestdomain.Approve(r, in.ResponseMessage, in.ActorID, now); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func requestErr(err error, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.New(httperr.CodeNotFound, "request %s not found", id)
	}
	return storageErr(err)
}

func storageErr(err error) error {
	if httperr.CodeOf(err) != "" {
		return err
	}
	return httperr.Unavailable(err)
}
