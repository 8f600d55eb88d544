package seats

import (
	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes registers inventory routes on the shared event group:
//
//	POST /api/v1/events/:eventId/seats/generate
//	GET  /api/v1/events/:eventId/seats/availability
func SetupSeatRoutes(events *gin.RouterGroup, controller *Controller) {
	events.POST("/seats/generate", controller.GenerateFloorPlan)
	events.GET("/seats/availability", controller.GetAvailability)
}
