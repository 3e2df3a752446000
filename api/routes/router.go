// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"aerobook/internal/changes"
	"aerobook/internal/fares"
	"aerobook/internal/notifications"
	"aerobook/internal/payments"
	"aerobook/internal/seats"
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/database"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"
	"aerobook/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// shared across feature setups
	tripRepo   trips.Repository
	ticketRepo tickets.Repository
	fareEngine fares.Engine
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	r.setupSharedDependencies()

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupFareRoutes(api)
		r.setupSeatRoutes(api)
		r.setupTicketRoutes(api)
		r.setupChangeRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "aerobook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "aerobook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupSharedDependencies wires the repositories and engines several feature
// routers share.
func (r *Router) setupSharedDependencies() {
	cacheService := cache.NewService(r.db.GetRedis())
	r.tripRepo = trips.NewCachedRepository(r.db.GetPostgreSQL(), cacheService)
	r.ticketRepo = tickets.NewRepository(r.db.GetPostgreSQL())
	r.fareEngine = fares.NewEngine(fares.DefaultChangeFeeTable(), r.tripRepo)
}

// setupFareRoutes configures fare quoting routes
func (r *Router) setupFareRoutes(rg *gin.RouterGroup) {
	fareController := fares.NewController(r.fareEngine, r.tripRepo)
	fares.SetupFareRoutes(rg, fareController)
}

// setupSeatRoutes configures seat map and assignment routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.tripRepo)
	seatController := seats.NewController(seatService)

	seats.SetupSeatRoutes(rg, seatController, r.config)
}

// setupTicketRoutes configures ticket lookup and check-in routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketService := tickets.NewService(r.ticketRepo, r.tripRepo, r.config, r.producer)
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController, r.config)
}

// setupChangeRoutes configures the ticket change workflow routes
func (r *Router) setupChangeRoutes(rg *gin.RouterGroup) {
	cacheService := cache.NewService(r.db.GetRedis())
	intents := changes.NewIntentStore(cacheService, r.config.Redis.PendingChangeTTL)

	converter := payments.NewFixedRateConverter(r.config.Payment.CurrencyRate)
	gateway := payments.NewRedirectGateway(r.config, converter)

	eligibility := changes.NewEligibilityChecker(r.fareEngine, r.tripRepo, r.config)
	calculator := changes.NewAmountCalculator(r.fareEngine)
	changeRepo := changes.NewRepository(r.db.GetPostgreSQL())

	workflow := changes.NewWorkflow(
		r.ticketRepo,
		r.tripRepo,
		eligibility,
		calculator,
		changeRepo,
		intents,
		gateway,
		r.producer,
		r.config,
	)
	changeController := changes.NewController(workflow)

	changes.SetupChangeRoutes(rg, changeController, r.config)
}
