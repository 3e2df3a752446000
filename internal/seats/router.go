package seats

import (
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat map and seat assignment routes
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Seat maps are public: shoppers browse availability before logging in
	rg.GET("/trips/:id/seatmap", controller.GetSeatMap) // GET /api/v1/trips/:id/seatmap?class=Economy

	authed := rg.Group("/tickets")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.PUT("/:id/seat", controller.AssignSeat) // PUT /api/v1/tickets/:id/seat
	}
}
