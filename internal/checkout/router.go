package checkout

import (
	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes registers checkout routes. Confirm lives on the shared
// event group; allocation lookup is top level:
//
//	POST /api/v1/events/:eventId/seats/confirm
//	GET  /api/v1/allocations/:allocationId
func SetupCheckoutRoutes(events *gin.RouterGroup, rg *gin.RouterGroup, controller *Controller) {
	events.POST("/seats/confirm", controller.Confirm)

	allocations := rg.Group("/allocations")
	{
		allocations.GET("/:allocationId", controller.GetAllocation)
	}
}
