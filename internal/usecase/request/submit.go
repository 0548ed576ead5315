package request

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	requestdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type SubmitRequestInput struct {
	BarberID string
	Type     string
	Reason   string

	// pto / sick
	StartDate string
	EndDate   string

	// price_change
	ServiceID      string
	RequestedPrice int64
}

// ======================================================
// USE CASE
// ======================================================

type SubmitRequest struct {
	repo         domain.Repository
	clock        timezone.Clock
	audit        *audit.Dispatcher
	maxLeaveDays int
}

func NewSubmitRequest(
	repo domain.Repository,
	clock timezone.Clock,
	audit *audit.Dispatcher,
	maxLeaveDays int,
) *SubmitRequest {
	return &SubmitRequest{
		repo:         repo,
		clock:        clock,
		audit:        audit,
		maxLeaveDays: maxLeaveDays,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitRequest) Execute(ctx context.Context, in SubmitRequestInput) (*models.Request, error) {
	typ, ok := requestdomain.ParseType(in.Type)
	if !ok {
		return nil, httperr.Validation("unknown request type %q", in.Type)
	}
	if strings.TrimSpace(in.BarberID) == "" {
		return nil, httperr.Validation("barber_id is required")
	}

	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.New(httperr.CodeNotFound, "barber %s not found", in.BarberID)
		}
		return nil, httperr.Unavailable(err)
	}

	r := &models.Request{
		ID:       uuid.NewString(),
		BarberID: in.BarberID,
		Type:     string(typ),
		Status:   string(requestdomain.StatusPending),
		Reason:   strings.TrimSpace(in.Reason),
	}

	// --------------------------------------------------
	// Type specific payload
	// --------------------------------------------------
	if typ.IsLeave() {
		start, end, err := requestdomain.ValidateLeave(
			requestdomain.LeavePayload{StartDate: in.StartDate, EndDate: in.EndDate},
			uc.clock.Location(),
			uc.maxLeaveDays,
		)
		if err != nil {
			return nil, err
		}
		r.StartDate = timezone.FormatDate(start)
		r.EndDate = timezone.FormatDate(end)
	} else {
		payload := requestdomain.PriceChangePayload{ServiceID: in.ServiceID, RequestedPrice: in.RequestedPrice}
		if payload.ServiceID == "" {
			return nil, httperr.Validation("service_id is required")
		}

		svc, err := uc.repo.GetService(ctx, in.BarberID, in.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.New(httperr.CodeNotFound, "service %s not found for barber %s", in.ServiceID, in.BarberID)
			}
			return nil, httperr.Unavailable(err)
		}
		if err := requestdomain.ValidatePriceChange(payload, svc.Price); err != nil {
			return nil, err
		}

		r.ServiceID = svc.ID
		r.CurrentPrice = svc.Price
		r.RequestedPrice = in.RequestedPrice
	}

	if err := uc.repo.CreateRequest(ctx, r); err != nil {
		return nil, httperr.Unavailable(err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.BarberID,
		BarberID: in.BarberID,
		Action:   "request_submitted",
		Entity:   "request",
		EntityID: r.ID,
		Metadata: map[string]any{"type": r.Type},
	})

	return r, nil
}
