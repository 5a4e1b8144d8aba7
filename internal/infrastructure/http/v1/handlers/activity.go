package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/infrastructure/http/v1/dto"
	"comercia/internal/infrastructure/storage/postgres"
)

// ActivityHandler exposes the activity log of an entity.
type ActivityHandler struct {
	*BaseHandler
	activity *postgres.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(base *BaseHandler, activity *postgres.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: base,
		activity:    activity,
	}
}

// History handles GET /activity?entityType=transaction&entityId=...
func (h *ActivityHandler) History(c *gin.Context) {
	entityType := c.Query("entityType")
	if entityType == "" {
		h.Error(c, apperror.NewValidation("entityType is required"))
		return
	}

	entityID, err := id.Parse(c.Query("entityId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid entityId format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.activity.GetEntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      entries,
		TotalCount: int64(len(entries)),
		Limit:      limit,
	})
}
