package fares

import (
	"github.com/gin-gonic/gin"
)

// SetupFareRoutes configures fare quoting routes
func SetupFareRoutes(rg *gin.RouterGroup, controller *Controller) {
	fares := rg.Group("/fares")
	{
		// Pricing is public: shoppers compare round trips before logging in
		fares.POST("/roundtrip", controller.QuoteRoundTrip) // POST /api/v1/fares/roundtrip
	}
}
