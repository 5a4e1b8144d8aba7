package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/scope"
	"comercia/internal/domain/auth"
	"comercia/internal/domain/catalogs/business"
	"comercia/internal/infrastructure/http/v1/dto"
)

// BusinessHandler handles HTTP requests for businesses. Creating a
// business attaches it to the creating user; the new claim appears in
// tokens after the next login or refresh.
type BusinessHandler struct {
	*BaseHandler
	service     *business.Service
	authService *auth.Service
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(base *BaseHandler, service *business.Service, authService *auth.Service) *BusinessHandler {
	return &BusinessHandler{
		BaseHandler: base,
		service:     service,
		authService: authService,
	}
}

// Create handles POST /businesses.
func (h *BusinessHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBusinessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity(h.UserID(c))
	if err := h.service.Create(ctx, b); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.authService.AttachBusiness(ctx, h.UserID(c), b.ID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// List handles GET /businesses, returning the caller's businesses.
func (h *BusinessHandler) List(c *gin.Context) {
	businesses, err := h.service.ListByOwner(c.Request.Context(), h.UserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      businesses,
		TotalCount: int64(len(businesses)),
		Limit:      len(businesses),
	})
}

// Get handles GET /businesses/:id.
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := scope.CheckUser(c.Request.Context(), scope.KindBusiness, b.OwnerID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Update handles PUT /businesses/:id.
func (h *BusinessHandler) Update(c *gin.Context) {
	businessID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := scope.CheckUser(c.Request.Context(), scope.KindBusiness, b.OwnerID); err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(b)

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
