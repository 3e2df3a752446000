package changes

import (
	"errors"
	"net/http"

	"aerobook/internal/payments"
	"aerobook/internal/shared/utils/response"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	workflow Workflow
}

func NewController(workflow Workflow) *Controller {
	return &Controller{workflow: workflow}
}

// CheckEligibility handles GET /tickets/:id/change/eligibility
func (ctrl *Controller) CheckEligibility(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	eligibility, err := ctrl.workflow.CheckEligibility(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "ticket not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "eligibility check failed")
		return
	}

	response.Success(c, "eligibility evaluated", eligibility)
}

// QuoteChange handles POST /tickets/:id/change/quote
func (ctrl *Controller) QuoteChange(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var req QuoteChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid quote request", nil, err.Error())
		return
	}
	newTripID, _ := uuid.Parse(req.NewTripID)

	quote, err := ctrl.workflow.QuoteChange(c.Request.Context(), ticketID, newTripID, seatClassPtr(req.NewSeatClass))
	if err != nil {
		ctrl.respondWorkflowError(c, err, "failed to quote change")
		return
	}

	response.Success(c, "change quoted", quote)
}

// InitiateChange handles POST /tickets/:id/change
func (ctrl *Controller) InitiateChange(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var req InitiateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid change request", nil, err.Error())
		return
	}
	newTripID, _ := uuid.Parse(req.NewTripID)

	result, err := ctrl.workflow.InitiateChange(c.Request.Context(), ticketID, newTripID, seatClassPtr(req.NewSeatClass), req.Reason, c.ClientIP())
	if err != nil {
		ctrl.respondWorkflowError(c, err, "failed to initiate change")
		return
	}

	if result.PaymentURL != "" {
		response.Success(c, "payment required", result)
		return
	}
	response.Success(c, "ticket changed", result)
}

// PaymentCallback handles GET /payments/callback
func (ctrl *Controller) PaymentCallback(c *gin.Context) {
	result, err := ctrl.workflow.HandlePaymentCallback(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature),
			errors.Is(err, payments.ErrMalformedCallback):
			response.Error(c, http.StatusBadRequest, "invalid payment callback")
		case errors.Is(err, ErrIntentNotFound):
			response.Error(c, http.StatusNotFound, "no pending change for this payment")
		case errors.Is(err, ErrPaymentDeclined):
			response.Error(c, http.StatusUnprocessableEntity, "payment was not successful, ticket unchanged")
		case errors.Is(err, ErrAmountMismatch):
			response.Error(c, http.StatusUnprocessableEntity, "paid amount does not match amount due")
		default:
			ctrl.respondWorkflowError(c, err, "failed to complete change")
		}
		return
	}

	response.Success(c, "ticket changed", result)
}

// ListHistory handles GET /tickets/:id/change/history
func (ctrl *Controller) ListHistory(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	history, err := ctrl.workflow.ListHistory(c.Request.Context(), ticketID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load change history")
		return
	}

	response.Success(c, "change history retrieved", history)
}

func (ctrl *Controller) respondWorkflowError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, tickets.ErrTicketNotFound), errors.Is(err, ErrTicketNotFound):
		response.Error(c, http.StatusNotFound, "ticket not found")
	case errors.Is(err, trips.ErrTripNotFound):
		response.Error(c, http.StatusNotFound, "trip not found")
	case errors.Is(err, ErrChangeNotAllowed):
		response.Error(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrClassSoldOut):
		response.Error(c, http.StatusConflict, "target seat class is sold out")
	case errors.Is(err, ErrTicketAlreadyChanged):
		response.Error(c, http.StatusConflict, "ticket is no longer active")
	default:
		// Rollback guarantees no partial state, so this is retry-safe.
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

func seatClassPtr(raw *string) *trips.SeatClass {
	if raw == nil {
		return nil
	}
	class := trips.SeatClass(*raw)
	return &class
}
