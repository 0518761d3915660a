package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reserva/internal/pkg/response"
)

// Handler serves the administration endpoints. All routes here sit behind the
// admin role middleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/reservations")
	{
		group.GET("", h.List)
		group.POST("/:id/approve", h.Approve)
		group.POST("/:id/refuse", h.Refuse)
	}
	admin.GET("/grid/:date", h.DayGrid)
	admin.GET("/week/:date", h.Week)
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/reports/usage", h.UsageReport)
	admin.GET("/intentions", h.Intentions)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rows, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": rows})
}

func (h *Handler) Approve(c *gin.Context) {
	adminID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	res, err := h.service.Approve(c.Request.Context(), adminID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.Error(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Only pending reservations can be approved")
		case errors.Is(err, ErrApproveConflict):
			response.Error(c, http.StatusConflict, "APPROVE_CONFLICT", "Approval would overlap another approved reservation")
		default:
			response.Error(c, http.StatusInternalServerError, "APPROVE_FAILED", "Failed to approve reservation")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) Refuse(c *gin.Context) {
	adminID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	var req RefuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A refusal reason is required")
		return
	}

	res, err := h.service.Refuse(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.Error(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Only pending reservations can be refused")
		case errors.Is(err, ErrReasonRequired):
			response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A refusal reason is required")
		default:
			response.Error(c, http.StatusInternalServerError, "REFUSE_FAILED", "Failed to refuse reservation")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) DayGrid(c *gin.Context) {
	grid, err := h.service.DayGrid(c.Request.Context(), c.Param("date"))
	if err != nil {
		if errors.Is(err, ErrBadDate) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GRID_FAILED", "Failed to build grid")
		return
	}

	response.Success(c, http.StatusOK, grid)
}

func (h *Handler) Week(c *gin.Context) {
	view, err := h.service.Week(c.Request.Context(), c.Param("date"))
	if err != nil {
		if errors.Is(err, ErrBadDate) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "WEEK_FAILED", "Failed to build week view")
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "DASHBOARD_FAILED", "Failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) UsageReport(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	report, err := h.service.UsageReport(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "REPORT_FAILED", "Failed to build report")
		return
	}

	response.Success(c, http.StatusOK, report)
}

func (h *Handler) Intentions(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "target_id is required")
		return
	}

	intentions, err := h.service.Intentions(c.Request.Context(), targetID, c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, ErrBadDate) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to are required as YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTENTIONS_FAILED", "Failed to list intentions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"intentions": intentions})
}
