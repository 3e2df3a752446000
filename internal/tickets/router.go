package tickets

import (
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures ticket lookup and check-in routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	tickets := rg.Group("/tickets")
	{
		// PNR lookup is public: possession of PNR + email is the credential
		tickets.GET("/lookup", controller.LookupTicket) // GET /api/v1/tickets/lookup?pnr=X&email=Y

		authed := tickets.Group("")
		authed.Use(middleware.JWTAuthWithConfig(cfg))
		{
			authed.GET("/:id", controller.GetTicket)        // GET  /api/v1/tickets/:id
			authed.POST("/:id/checkin", controller.CheckIn) // POST /api/v1/tickets/:id/checkin
		}
	}
}
