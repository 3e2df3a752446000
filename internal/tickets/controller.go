package tickets

import (
	"errors"
	"net/http"

	"aerobook/internal/shared/utils/response"
	"aerobook/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetTicket handles GET /tickets/:id
func (ctrl *Controller) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := ctrl.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "ticket not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load ticket")
		return
	}

	response.Success(c, "ticket retrieved", ticket.ToResponse())
}

// LookupTicket handles GET /tickets/lookup?pnr=...&email=...
func (ctrl *Controller) LookupTicket(c *gin.Context) {
	var query struct {
		PNR   string `form:"pnr" binding:"required,len=6"`
		Email string `form:"email" binding:"required,email"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid lookup query", nil, err.Error())
		return
	}

	ticket, err := ctrl.service.LookupByPNR(c.Request.Context(), query.PNR, query.Email)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "no ticket matches that PNR and email")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to look up ticket")
		return
	}

	response.Success(c, "ticket retrieved", ticket.ToResponse())
}

// CheckIn handles POST /tickets/:id/checkin
func (ctrl *Controller) CheckIn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := ctrl.service.CheckIn(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			response.Error(c, http.StatusNotFound, "ticket not found")
		case errors.Is(err, trips.ErrTripNotFound):
			response.Error(c, http.StatusNotFound, "trip not found")
		case errors.Is(err, ErrCheckInCancelled),
			errors.Is(err, ErrCheckInAlready),
			errors.Is(err, ErrCheckInDeparted),
			errors.Is(err, ErrCheckInWindowNotOpen):
			response.Error(c, http.StatusUnprocessableEntity, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "check-in failed")
		}
		return
	}

	response.Success(c, "checked in", ticket.ToResponse())
}
