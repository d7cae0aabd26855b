package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/response"
)

// ReferenceHandler serves the read-only status and leaving reason tables.
type ReferenceHandler struct {
	service *application.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(service *application.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// RegisterRoutes registers reference data routes.
func (h *ReferenceHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/statuses", h.ListStatuses)
		v1.GET("/leaving-reasons", h.ListLeavingReasons)
	}
}

// ListStatuses handles GET /api/v1/statuses.
func (h *ReferenceHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.service.ListStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, statuses)
}

// ListLeavingReasons handles GET /api/v1/leaving-reasons.
func (h *ReferenceHandler) ListLeavingReasons(c *gin.Context) {
	reasons, err := h.service.ListLeavingReasons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reasons)
}
