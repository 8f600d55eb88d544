package reservations

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

// Reserve places an exclusive hold on the requested seat set
func (c *Controller) Reserve(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Event ID is required", nil, "missing event ID")
		return
	}

	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if req.BuyerSession == "" {
		req.BuyerSession = ctx.GetString("buyer_session")
	}

	hold, err := c.service.Reserve(ctx.Request.Context(), eventID, req)
	if err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seats not available",
				gin.H{"unavailable_seats": conflict.SeatIDs}, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to reserve seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seats reserved successfully", hold, nil)
}

// Extend pushes a hold's expiry forward
func (c *Controller) Extend(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	holdID := ctx.Param("holdId")
	if holdID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Hold ID is required", nil, "missing hold ID")
		return
	}

	hold, err := c.service.Extend(ctx.Request.Context(), eventID, holdID)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrHoldNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to extend hold", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold extended successfully", hold, nil)
}

// Release returns the hold's seats to the pool. Safe to call twice.
func (c *Controller) Release(ctx *gin.Context) {
	holdID := ctx.Param("holdId")
	if holdID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Hold ID is required", nil, "missing hold ID")
		return
	}

	result, err := c.service.Release(ctx.Request.Context(), holdID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to release hold", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold released successfully", result, nil)
}
