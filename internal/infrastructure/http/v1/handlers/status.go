package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercia/internal/domain"
	"comercia/internal/domain/catalogs/status"
	"comercia/internal/infrastructure/http/v1/dto"
)

// StatusHandler exposes the entity status catalog. Statuses are global
// reference data seeded at install time, so the API is read-only.
type StatusHandler struct {
	*BaseHandler
	service *status.Service
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(base *BaseHandler, service *status.Service) *StatusHandler {
	return &StatusHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /statuses.
func (h *StatusHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /statuses/:id.
func (h *StatusHandler) Get(c *gin.Context) {
	statusID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), statusID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
