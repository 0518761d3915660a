package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reserva/internal/pkg/response"
)

// Handler serves the public catalog reads and the admin catalog management.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/catalog")
	{
		group.GET("/tree", h.GetTree)
		group.GET("/targets", h.GetTargets)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/resources")
	{
		group.POST("", h.CreateResource)
		group.PUT("/:id", h.UpdateResource)
		group.PATCH("/:id/active", h.SetResourceActive)
	}
}

func (h *Handler) GetTree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CATALOG_FAILED", "Failed to load catalog")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resources": tree})
}

func (h *Handler) GetTargets(c *gin.Context) {
	targets, err := h.service.Targets(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CATALOG_FAILED", "Failed to load targets")
		return
	}
	SortTargets(targets)
	response.Success(c, http.StatusOK, gin.H{"targets": targets})
}

func (h *Handler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.CreateResource(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrParentNotFound):
			response.Error(c, http.StatusNotFound, "PARENT_NOT_FOUND", "Parent resource not found")
		case errors.Is(err, ErrNestedParent):
			response.Error(c, http.StatusBadRequest, "NESTED_PARENT", "Sub-resources cannot have children")
		default:
			response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create resource")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"resource": res})
}

func (h *Handler) UpdateResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid resource id")
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.UpdateResource(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update resource")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"resource": res})
}

func (h *Handler) SetResourceActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid resource id")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetResourceActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update resource")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "active": *req.Active})
}
