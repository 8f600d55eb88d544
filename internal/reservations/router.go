package reservations

import (
	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes registers hold routes on the shared event group:
//
//	POST   /api/v1/events/:eventId/seats/reserve
//	POST   /api/v1/events/:eventId/seats/reserve/:holdId/extend
//	DELETE /api/v1/events/:eventId/seats/reserve/:holdId
func SetupReservationRoutes(events *gin.RouterGroup, controller *Controller) {
	events.POST("/seats/reserve", controller.Reserve)
	events.POST("/seats/reserve/:holdId/extend", controller.Extend)
	events.DELETE("/seats/reserve/:holdId", controller.Release)
}
