package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reserva/internal/pkg/response"
)

// Handler serves the requester-facing booking endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/reservations")
	{
		group.POST("", h.Create)
		group.GET("/mine", h.Mine)
		group.POST("/:id/cancel", h.Cancel)
	}
	protected.POST("/intentions", h.DeclareIntention)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRange):
			response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "End time must be after start time")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation data")
		case errors.Is(err, ErrDayLocked):
			response.Error(c, http.StatusUnprocessableEntity, "DAY_LOCKED", "This day cannot be booked yet")
		case errors.Is(err, ErrTargetNotBookable):
			response.Error(c, http.StatusBadRequest, "TARGET_NOT_BOOKABLE", "This resource cannot be booked directly")
		case errors.Is(err, ErrHardConflict):
			response.Error(c, http.StatusConflict, "HARD_CONFLICT", "The slot overlaps an approved reservation")
		case errors.Is(err, ErrSoftConflict):
			// The slot is only pending-blocked, so the client may offer to
			// declare an intention instead.
			response.ErrorWithDetails(c, http.StatusConflict, "SOFT_CONFLICT",
				"The slot overlaps a pending reservation", gin.H{"intention_allowed": true})
		default:
			response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create reservation")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"reservation": ReservationResponse{
			Reservation: *result.Reservation,
			TargetName:  result.TargetName,
		},
	})
}

func (h *Handler) Mine(c *gin.Context) {
	userID := c.GetInt64("user_id")

	reservations, err := h.service.MyReservations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": reservations})
}

func (h *Handler) Cancel(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	var req CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A cancellation reason is required")
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.Error(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "NOT_OWNER", "Only the owner can cancel a reservation")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "This reservation can no longer be cancelled")
		case errors.Is(err, ErrCancelCutoff):
			response.Error(c, http.StatusUnprocessableEntity, "CANCEL_CUTOFF", "Too close to the start time to cancel")
		default:
			response.Error(c, http.StatusInternalServerError, "CANCEL_FAILED", "Failed to cancel reservation")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) DeclareIntention(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req DeclareIntentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	in, err := h.service.DeclareIntention(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRange):
			response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "End time must be after start time")
		case errors.Is(err, ErrTargetNotBookable):
			response.Error(c, http.StatusBadRequest, "TARGET_NOT_BOOKABLE", "This resource cannot be booked directly")
		default:
			response.Error(c, http.StatusInternalServerError, "INTENTION_FAILED", "Failed to record intention")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"intention": in})
}
