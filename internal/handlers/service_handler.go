package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

type ServiceHandler struct {
	repo domain.Repository
}

func NewServiceHandler(repo domain.Repository) *ServiceHandler {
	return &ServiceHandler{repo: repo}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	DurationMin int    `json:"duration_min" binding:"required,min=1"`
	Price       int64  `json:"price" binding:"required,min=1"`
	Category    string `json:"category"`
}

// Price is accepted only to be refused: it moves through an approved
// price_change request.
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	Category    *string `json:"category,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	Price       *int64  `json:"price,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.repo.ListServices(c.Request.Context(), c.Param("barberId"))
	if err != nil {
		httperr.FromError(c, httperr.Unavailable(err))
		return
	}

	if active := c.Query("active"); active == "true" || active == "false" {
		want := active == "true"
		filtered := services[:0]
		for _, s := range services {
			if s.Active == want {
				filtered = append(filtered, s)
			}
		}
		services = filtered
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	barberID := c.Param("barberId")

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.repo.GetBarber(ctx, barberID); err != nil {
		httperr.FromError(c, notFoundOr(err, "barber", barberID))
		return
	}

	svc := models.Service{
		ID:          uuid.NewString(),
		BarberID:    barberID,
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Active:      true,
	}
	if err := h.repo.CreateService(ctx, &svc); err != nil {
		httperr.FromError(c, httperr.Unavailable(err))
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	barberID := c.Param("barberId")
	serviceID := c.Param("serviceId")

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price != nil {
		httperr.FromError(c, httperr.Validation("price changes go through a price_change request"))
		return
	}

	var out *models.Service
	err := h.repo.WithinTx(ctx, func(tx domain.Repository) error {
		svc, err := tx.GetServiceForUpdate(ctx, barberID, serviceID)
		if err != nil {
			return notFoundOr(err, "service", serviceID)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return httperr.Validation("name cannot be empty")
			}
			svc.Name = name
		}
		if req.DurationMin != nil {
			if *req.DurationMin <= 0 {
				return httperr.Validation("duration_min must be positive")
			}
			svc.DurationMin = *req.DurationMin
		}
		if req.Category != nil {
			svc.Category = strings.ToLower(strings.TrimSpace(*req.Category))
		}
		if req.Active != nil {
			svc.Active = *req.Active
		}

		if err := tx.UpdateService(ctx, svc); err != nil {
			return httperr.Unavailable(err)
		}
		out = svc
		return nil
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}

func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.New(httperr.CodeNotFound, "%s %s not found", entity, id)
	}
	return httperr.Unavailable(err)
}
