package request

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	requestdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

type DenyInput struct {
	RequestID       string
	ResponseMessage string
	ActorID         string
}

type Deny struct {
	repo  domain.Repository
	clock timezone.Clock
	audit *audit.Dispatcher
}

func NewDeny(repo domain.Repository, clock timezone.Clock, audit *audit.Dispatcher) *Deny {
	return &Deny{repo: repo, clock: clock, audit: audit}
}

func (uc *Deny) Execute(ctx context.Context, in DenyInput) (*models.Request, error) {
	// Rejected before any state is read.
	if strings.TrimSpace(in.ResponseMessage) == "" {
		return nil, httperr.New(httperr.CodeResponseRequired, "a response message is required to deny a request")
	}

	now := uc.clock.Now()

	var out *models.Request
	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		r, err := tx.GetRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return requestErr(err, in.RequestID)
		}
		if err := requestdomain.Deny(r, in.ResponseMessage, in.ActorID, now); err != nil {
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

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		BarberID: out.BarberID,
		Action:   "request_denied",
		Entity:   "request",
		EntityID: out.ID,
	})

	return out, nil
}
