package changes

import (
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupChangeRoutes configures ticket change and payment callback routes
func SetupChangeRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// The gateway calls back unauthenticated; the signed payload is the
	// credential.
	rg.GET("/payments/callback", controller.PaymentCallback) // GET /api/v1/payments/callback

	authed := rg.Group("/tickets")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.GET("/:id/change/eligibility", controller.CheckEligibility) // GET  /api/v1/tickets/:id/change/eligibility
		authed.POST("/:id/change/quote", controller.QuoteChange)           // POST /api/v1/tickets/:id/change/quote
		authed.POST("/:id/change", controller.InitiateChange)              // POST /api/v1/tickets/:id/change
		authed.GET("/:id/change/history", controller.ListHistory)          // GET  /api/v1/tickets/:id/change/history
	}
}
