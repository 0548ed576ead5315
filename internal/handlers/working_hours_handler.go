package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/cache"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

// invalidationHorizon is how far ahead cached projections are dropped when
// the template changes. Anything later has long expired by the time it is
// read.
const invalidationHorizon = 60 * 24 * time.Hour

type WorkingHoursHandler struct {
	repo  domain.Repository
	cache cache.AvailabilityCache
	clock timezone.Clock
}

func NewWorkingHoursHandler(repo domain.Repository, c cache.AvailabilityCache, clock timezone.Clock) *WorkingHoursHandler {
	if c == nil {
		c = cache.Nop{}
	}
	return &WorkingHoursHandler{repo: repo, cache: c, clock: clock}
}

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	hours, err := h.repo.ListWorkingHours(c.Request.Context(), c.Param("barberId"))
	if err != nil {
		httperr.FromError(c, httperr.Unavailable(err))
		return
	}

	httpresp.OK(c, hours)
}

// Update replaces the weekly template. It is checked against the barber's
// slot granularity first, so a template the generator cannot tile is never
// stored.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	barberID := c.Param("barberId")

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	barber, err := h.repo.GetBarber(ctx, barberID)
	if err != nil {
		httperr.FromError(c, notFoundOr(err, "barber", barberID))
		return
	}

	seen := make(map[int]bool, len(req.Days))
	rows := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.FromError(c, httperr.Validation("weekday %d listed twice", d.Weekday))
			return
		}
		seen[d.Weekday] = true

		rows = append(rows, models.WorkingHours{
			BarberID:  barberID,
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}

	granularity := time.Duration(barber.SlotMinutes) * time.Minute
	if err := calendar.ValidateTemplate(calendar.TemplateFromModels(rows), granularity); err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := h.repo.ReplaceWorkingHours(ctx, barberID, rows); err != nil {
		httperr.FromError(c, httperr.Unavailable(err))
		return
	}

	now := h.clock.Now()
	h.cache.Invalidate(ctx, barberID, timezone.DatesBetween(now, now.Add(invalidationHorizon))...)

	httpresp.OK(c, rows)
}
