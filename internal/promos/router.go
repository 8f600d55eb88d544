package promos

import (
	"github.com/gin-gonic/gin"
)

// SetupPromoRoutes registers promo code routes:
//
//	POST /api/v1/promo-codes/apply
//	GET  /api/v1/promo-codes/active
func SetupPromoRoutes(rg *gin.RouterGroup, controller *Controller) {
	codes := rg.Group("/promo-codes")
	{
		codes.POST("/apply", controller.Apply)
		codes.GET("/active", controller.ListActive)
	}
}
