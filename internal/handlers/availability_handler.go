package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-core/internal/usecase/availability"
)

type AvailabilityHandler struct {
	getAvailability *availability.GetAvailability
}

func NewAvailabilityHandler(uc *availability.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{getAvailability: uc}
}

// GET /api/barbers/:barberId/availability?date=YYYY-MM-DD
func (h *AvailabilityHandler) Get(c *gin.Context) {
	date, ok := requireDate(c)
	if !ok {
		return
	}

	out, err := h.getAvailability.Execute(c.Request.Context(), c.Param("barberId"), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}
