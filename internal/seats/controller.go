package seats

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

// GetSeatMap handles GET /trips/:id/seatmap?class=Economy
func (ctrl *Controller) GetSeatMap(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip id")
		return
	}

	var query SeatMapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid seat map query", nil, err.Error())
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), tripID, trips.SeatClass(query.Class))
	if err != nil {
		if errors.Is(err, trips.ErrTripNotFound) {
			response.Error(c, http.StatusNotFound, "trip not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to build seat map")
		return
	}

	response.Success(c, "seat map retrieved", seatMap)
}

// AssignSeat handles PUT /tickets/:id/seat
func (ctrl *Controller) AssignSeat(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var req AssignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid seat request", nil, err.Error())
		return
	}

	ticket, err := ctrl.service.AssignSeat(c.Request.Context(), ticketID, req.SeatNumber)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			response.Error(c, http.StatusNotFound, "ticket not found")
		case errors.Is(err, ErrInvalidSeat):
			response.Error(c, http.StatusUnprocessableEntity, "seat does not exist in this cabin")
		case errors.Is(err, ErrSeatTaken):
			response.Error(c, http.StatusConflict, "seat is already taken")
		case errors.Is(err, ErrTicketInactive):
			response.Error(c, http.StatusUnprocessableEntity, "ticket is cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, "seat assignment failed")
		}
		return
	}

	response.Success(c, "seat assigned", ticket.ToResponse())
}
