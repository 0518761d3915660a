package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"reserva/internal/pkg/response"
)

// Handler serves the availability reads behind the booking form.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/availability")
	{
		group.GET("/check", h.CheckSlot)
		group.GET("/days", h.Days)
		group.GET("/days/:date", h.Day)
	}
}

func (h *Handler) CheckSlot(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "target_id is required")
		return
	}

	// Absent or malformed endpoints map to the zero time, which the check
	// reports as incomplete rather than an error.
	start, _ := time.Parse(time.RFC3339, c.Query("start"))
	end, _ := time.Parse(time.RFC3339, c.Query("end"))

	result, err := h.service.CheckSlot(c.Request.Context(), targetID, start, end)
	if err != nil {
		if errors.Is(err, ErrUnknownTarget) {
			response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Unknown target")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CHECK_FAILED", "Failed to check slot")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Days(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "target_id is required")
		return
	}

	days, err := h.service.Days(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, ErrUnknownTarget) {
			response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Unknown target")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DAYS_FAILED", "Failed to load calendar")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"days": days})
}

func (h *Handler) Day(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "target_id is required")
		return
	}

	slots, err := h.service.Day(c.Request.Context(), targetID, c.Param("date"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTarget):
			response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Unknown target")
		case errors.Is(err, ErrBadDate):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		default:
			response.Error(c, http.StatusInternalServerError, "DAY_FAILED", "Failed to load day")
		}
		return
	}

	response.Success(c, http.StatusOK, slots)
}
