package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-core/internal/middleware"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
	"github.com/BruksfildServices01/barbershop-core/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *booking.CreateBooking
	listByDate   *booking.ListBookingsByDate
	pay          *booking.RecordPayment
	changeStatus *booking.ChangeStatus
	refund       *booking.Refund
}

func NewBookingHandler(
	create *booking.CreateBooking,
	listByDate *booking.ListBookingsByDate,
	pay *booking.RecordPayment,
	changeStatus *booking.ChangeStatus,
	refund *booking.Refund,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		listByDate:   listByDate,
		pay:          pay,
		changeStatus: changeStatus,
		refund:       refund,
	}
}

// ======================================================
// REQUESTS / RESPONSES
// ======================================================

type DepositRequest struct {
	Method     string `json:"method" binding:"required"`
	Token      string `json:"token"`
	PayerEmail string `json:"payer_email"`
}

type CreateBookingRequest struct {
	// Only honored for cashier and admin; customers always book for
	// themselves.
	CustomerID string `json:"customer_id"`

	BarberID  string `json:"barber_id" binding:"required"`
	ServiceID string `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`

	Deposit *DepositRequest `json:"deposit"`
}

type RecordPaymentRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	Method     string `json:"method" binding:"required"`
	Token      string `json:"token"`
	PayerEmail string `json:"payer_email"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BookingResponse struct {
	Booking  *models.Booking `json:"booking"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	customerID := actorID(c)
	if role := actorRole(c); role == middleware.RoleCashier || role == middleware.RoleAdmin {
		if req.CustomerID == "" {
			httperr.BadRequest(c, httperr.CodeValidation, "customer_id is required when booking on behalf of a customer")
			return
		}
		customerID = req.CustomerID
	}

	in := booking.CreateBookingInput{
		CustomerID: customerID,
		BarberID:   req.BarberID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.Deposit != nil {
		if !staffForCash(c, req.Deposit.Method) {
			return
		}
		in.Deposit = &booking.DepositInput{
			Method:     req.Deposit.Method,
			Token:      req.Deposit.Token,
			PayerEmail: req.Deposit.PayerEmail,
		}
	}

	out, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, BookingResponse{Booking: out.Booking, Warnings: out.Warnings})
}

// ======================================================
// LIST BY DATE
// ======================================================

// GET /api/barbers/:barberId/bookings?date=YYYY-MM-DD
func (h *BookingHandler) ListByDate(c *gin.Context) {
	barberID := c.Param("barberId")
	if !ownsBarber(c, barberID) {
		return
	}
	date, ok := requireDate(c)
	if !ok {
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), barberID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *BookingHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !staffForCash(c, req.Method) {
		return
	}

	in := booking.RecordPaymentInput{
		BookingID:  c.Param("id"),
		Amount:     req.Amount,
		Method:     req.Method,
		Token:      req.Token,
		PayerEmail: req.PayerEmail,
		ActorID:    actorID(c),
	}
	if actorRole(c) == middleware.RoleCustomer {
		in.CustomerID = actorID(c)
	}

	b, err := h.pay.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, BookingResponse{Booking: b})
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	in := booking.ChangeStatusInput{
		BookingID: c.Param("id"),
		Status:    req.Status,
		ActorID:   actorID(c),
	}
	if actorRole(c) == middleware.RoleBarber {
		in.BarberID = actorID(c)
	}

	out, err := h.changeStatus.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, BookingResponse{Booking: out.Booking, Warnings: out.Warnings})
}

func (h *BookingHandler) Refund(c *gin.Context) {
	b, err := h.refund.Execute(c.Request.Context(), booking.RefundInput{
		BookingID: c.Param("id"),
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, BookingResponse{Booking: b})
}
