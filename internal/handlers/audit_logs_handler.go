package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs  *audit.Logger
	clock timezone.Clock
}

func NewAuditLogsHandler(logs *audit.Logger, clock timezone.Clock) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, clock: clock}
}

// List filters by barber_id, action, entity, entity_id and a business-local
// from/to date range (to inclusive).
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f := audit.ListFilter{
		BarberID: c.Query("barber_id"),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Page:     page,
		Limit:    limit,
	}

	loc := h.clock.Location()
	if from := c.Query("from"); from != "" {
		t, err := timezone.ParseDate(from, loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "from must be YYYY-MM-DD")
			return
		}
		f.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := timezone.ParseDate(to, loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "to must be YYYY-MM-DD")
			return
		}
		f.To = t.AddDate(0, 0, 1)
	}
	f.Normalize()

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.FromError(c, httperr.Unavailable(err))
		return
	}

	c.JSON(200, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}
