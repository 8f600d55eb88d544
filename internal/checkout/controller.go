package checkout

import (
	"errors"
	"net/http"

	"seatgrid/internal/promos"
	"seatgrid/internal/reservations"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Confirm finalizes a hold into a paid allocation
func (c *Controller) Confirm(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Event ID is required", nil, "missing event ID")
		return
	}

	var req ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.Confirm(ctx.Request.Context(), eventID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", confirmStatusCode(err), "Failed to confirm checkout", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Checkout confirmed successfully", result, nil)
}

// GetAllocation returns a finalized allocation with its price breakdown
func (c *Controller) GetAllocation(ctx *gin.Context) {
	allocationID := ctx.Param("allocationId")
	if allocationID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Allocation ID is required", nil, "missing allocation ID")
		return
	}

	allocation, err := c.service.GetAllocation(ctx.Request.Context(), allocationID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrAllocationNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get allocation", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Allocation retrieved successfully", allocation, nil)
}

// confirmStatusCode maps the checkout error taxonomy onto HTTP statuses
func confirmStatusCode(err error) int {
	switch {
	case errors.Is(err, reservations.ErrHoldNotFound), errors.Is(err, promos.ErrPromoNotFound):
		return http.StatusNotFound
	case errors.Is(err, reservations.ErrHoldExpired), errors.Is(err, promos.ErrPromoInactive):
		return http.StatusGone
	case errors.Is(err, ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, promos.ErrMinimumNotMet), errors.Is(err, promos.ErrUsageExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
