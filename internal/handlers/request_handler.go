package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-core/internal/usecase/request"
)

type RequestHandler struct {
	submit  *request.SubmitRequest
	list    *request.ListRequests
	approve *request.Approve
	deny    *request.Deny
}

func NewRequestHandler(
	submit *request.SubmitRequest,
	list *request.ListRequests,
	approve *request.Approve,
	deny *request.Deny,
) *RequestHandler {
	return &RequestHandler{submit: submit, list: list, approve: approve, deny: deny}
}

// --------- Requests ---------

type SubmitRequestRequest struct {
	Type   string `json:"type" binding:"required"`
	Reason string `json:"reason"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	ServiceID      string `json:"service_id"`
	RequestedPrice int64  `json:"requested_price"`
}

type ApproveRequest struct {
	ResponseMessage string `json:"response_message"`
	Override        bool   `json:"override"`
}

type DenyRequest struct {
	ResponseMessage string `json:"response_message"`
}

// --------- Handlers ---------

// Submit always files the request for the calling barber.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req SubmitRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.submit.Execute(c.Request.Context(), request.SubmitRequestInput{
		BarberID:       actorID(c),
		Type:           req.Type,
		Reason:         req.Reason,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		ServiceID:      req.ServiceID,
		RequestedPrice: req.RequestedPrice,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, r)
}

func (h *RequestHandler) List(c *gin.Context) {
	out, err := h.list.Execute(c.Request.Context(), domain.RequestFilter{
		BarberID: c.Query("barber_id"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, out)
}

// Approve and Deny accept an empty body; Deny then fails with
// response_required.
func (h *RequestHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	r, err := h.approve.Execute(c.Request.Context(), request.ApproveInput{
		RequestID:       c.Param("id"),
		ResponseMessage: req.ResponseMessage,
		ActorID:         actorID(c),
		Override:        req.Override,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, r)
}

func (h *RequestHandler) Deny(c *gin.Context) {
	var req DenyRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	r, err := h.deny.Execute(c.Request.Context(), request.DenyInput{
		RequestID:       c.Param("id"),
		ResponseMessage: req.ResponseMessage,
		ActorID:         actorID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, r)
}
