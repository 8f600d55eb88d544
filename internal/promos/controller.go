package promos

import (
	"errors"
	"net/http"

	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Apply validates a code against an order amount and previews the discount
func (c *Controller) Apply(ctx *gin.Context) {
	var req ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.Apply(ctx.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		switch {
		case errors.Is(err, ErrPromoNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrPromoInactive):
			statusCode = http.StatusGone
		}
		response.RespondJSON(ctx, "error", statusCode, "Promo code not applicable", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo code applied successfully", result, nil)
}

// ListActive returns codes currently inside their window with uses left
func (c *Controller) ListActive(ctx *gin.Context) {
	promos, err := c.service.ListActive(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list promo codes", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Active promo codes retrieved successfully", promos, nil)
}
