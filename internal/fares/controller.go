package fares

import (
	"errors"
	"net/http"

	"aerobook/internal/shared/utils/response"
	"aerobook/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoundTripQuoteRequest prices a paired outbound + return purchase.
type RoundTripQuoteRequest struct {
	OutboundTripID string `json:"outbound_trip_id" binding:"required,uuid"`
	ReturnTripID   string `json:"return_trip_id" binding:"required,uuid"`
	OutboundClass  string `json:"outbound_class" binding:"required,oneof=Economy Business FirstClass"`
	ReturnClass    string `json:"return_class" binding:"required,oneof=Economy Business FirstClass"`
}

type Controller struct {
	engine   Engine
	tripRepo trips.Repository
}

func NewController(engine Engine, tripRepo trips.Repository) *Controller {
	return &Controller{engine: engine, tripRepo: tripRepo}
}

// QuoteRoundTrip handles POST /fares/roundtrip
func (ctrl *Controller) QuoteRoundTrip(c *gin.Context) {
	var req RoundTripQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid round trip quote request", nil, err.Error())
		return
	}
	outboundID, _ := uuid.Parse(req.OutboundTripID)
	returnID, _ := uuid.Parse(req.ReturnTripID)

	ctx := c.Request.Context()
	outbound, err := ctrl.tripRepo.GetTripByID(ctx, outboundID)
	if err != nil {
		if errors.Is(err, trips.ErrTripNotFound) {
			response.Error(c, http.StatusNotFound, "outbound trip not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load outbound trip")
		return
	}
	returnTrip, err := ctrl.tripRepo.GetTripByID(ctx, returnID)
	if err != nil {
		if errors.Is(err, trips.ErrTripNotFound) {
			response.Error(c, http.StatusNotFound, "return trip not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load return trip")
		return
	}

	breakdown, err := ctrl.engine.RoundTripPrice(ctx, outbound, returnTrip,
		trips.SeatClass(req.OutboundClass), trips.SeatClass(req.ReturnClass))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to price round trip")
		return
	}

	response.Success(c, "round trip priced", breakdown)
}
