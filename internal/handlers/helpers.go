package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/middleware"
	"github.com/BruksfildServices01/barbershop-core/internal/payment"
)

func actorID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func actorRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}

// ownsBarber stops a barber from reading or acting on another barber's
// calendar. Staff roles pass.
func ownsBarber(c *gin.Context, barberID string) bool {
	if actorRole(c) == middleware.RoleBarber && actorID(c) != barberID {
		httperr.Forbidden(c, "forbidden", "barbers can only access their own calendar")
		return false
	}
	return true
}

// staffForCash keeps cash behind the counter: only a cashier or admin can
// say money changed hands.
func staffForCash(c *gin.Context, method string) bool {
	m, _ := payment.ParseMethod(method)
	if m != payment.MethodCash {
		return true
	}
	if role := actorRole(c); role == middleware.RoleCashier || role == middleware.RoleAdmin {
		return true
	}
	httperr.Forbidden(c, "forbidden", "cash payments are recorded by staff")
	return false
}

// bindJSON writes the validation error itself; callers just return on false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return false
	}
	return true
}

func requireDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "date query parameter is required (YYYY-MM-DD)")
		return "", false
	}
	return date, true
}
