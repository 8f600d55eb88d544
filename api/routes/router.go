// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"seatgrid/internal/checkout"
	"seatgrid/internal/pricing"
	"seatgrid/internal/promos"
	"seatgrid/internal/reservations"
	"seatgrid/internal/seats"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/database"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer checkout.AllocationProducer

	sweeper *reservations.Sweeper
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer checkout.AllocationProducer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes and wires the services
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	cacheService := r.cacheService()
	pricingEngine := pricing.NewEngine(pricing.Policy{
		ConvenienceFeePercent: r.config.Pricing.ConvenienceFeePercent,
		ConvenienceFeeFlat:    r.config.Pricing.ConvenienceFeeFlat,
		TaxPercent:            r.config.Pricing.TaxPercent,
	})

	// Services, wired bottom-up: inventory, holds, promos, checkout
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.config, cacheService)

	holdRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	holdService := reservations.NewService(holdRepo, r.config, seatService)
	r.sweeper = reservations.NewSweeper(holdService, r.config.Reservation.SweepInterval)

	promoRepo := promos.NewRepository(r.db.GetPostgreSQL())
	promoService := promos.NewService(promoRepo, pricingEngine, cacheService)

	checkoutRepo := checkout.NewRepository(r.db.GetPostgreSQL())
	checkoutService := checkout.NewService(checkoutRepo, holdService, promoService, pricingEngine, r.producer)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Every seat operation is scoped to one event
		events := api.Group("/events/:eventId")
		{
			seats.SetupSeatRoutes(events, seats.NewController(seatService))
			reservations.SetupReservationRoutes(events, reservations.NewController(holdService))
			checkout.SetupCheckoutRoutes(events, api, checkout.NewController(checkoutService))
		}

		promos.SetupPromoRoutes(api, promos.NewController(promoService))
	}
}

// Sweeper returns the hold sweeper for lifecycle management. Only valid
// after SetupRoutes.
func (r *Router) Sweeper() *reservations.Sweeper {
	return r.sweeper
}

func (r *Router) cacheService() cache.Service {
	redisClient := r.db.GetRedisClient()
	if redisClient == nil {
		logger.GetDefault().Warn("Redis unavailable, availability caching disabled")
		return nil
	}
	return cache.NewService(redisClient)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatgrid",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatgrid",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
