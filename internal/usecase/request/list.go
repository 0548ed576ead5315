package request

import (
	"context"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	requestdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

type ListRequests struct {
	repo domain.Repository
}

func NewListRequests(repo domain.Repository) *ListRequests {
	return &ListRequests{repo: repo}
}

func (uc *ListRequests) Execute(ctx context.Context, f domain.RequestFilter) ([]models.Request, error) {
	if f.Status != "" {
		if _, ok := requestdomain.ParseStatus(f.Status); !ok {
			return nil, httperr.Validation("unknown request status %q", f.Status)
		}
	}
	if f.Type != "" {
		if _, ok := requestdomain.ParseType(f.Type); !ok {
			return nil, httperr.Validation("unknown request type %q", f.Type)
		}
	}

	out, err := uc.repo.ListRequests(ctx, f)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}
	return out, nil
}
