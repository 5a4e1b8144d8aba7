package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/scope"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/domain/registers/stock"
	"comercia/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for products and their variants.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
	stock   *stock.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, stockService *stock.Service) *ProductHandler {
	generic := NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		Kind:       scope.KindProduct,
		MapCreate: func(c *gin.Context, req dto.CreateProductRequest) (*product.Product, bool) {
			return req.ToEntity(base.BusinessID(c))
		},
		MapUpdate: func(req dto.UpdateProductRequest, existing *product.Product) bool {
			return req.ApplyTo(existing)
		},
	})

	return &ProductHandler{
		CatalogHandler: generic,
		service:        service,
		stock:          stockService,
	}
}

// guardProduct loads a product and authorizes access to it.
func (h *ProductHandler) guardProduct(c *gin.Context) (*product.Product, bool) {
	productID, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	if err := scope.CheckBusiness(c.Request.Context(), scope.KindProduct, p.BusinessID); err != nil {
		h.Error(c, err)
		return nil, false
	}

	return p, true
}

// ListVariants handles GET /products/:id/variants.
func (h *ProductHandler) ListVariants(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	variants, err := h.service.ListVariants(c.Request.Context(), p.ID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      variants,
		TotalCount: int64(len(variants)),
		Limit:      len(variants),
	})
}

// CreateVariant handles POST /products/:id/variants.
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	var req dto.CreateVariantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v := req.ToEntity(p.ID)
	if err := h.service.CreateVariant(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

// GetVariant handles GET /products/:id/variants/:variantId.
func (h *ProductHandler) GetVariant(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	variantID, ok := h.ParamID(c, "variantId")
	if !ok {
		return
	}

	v, err := h.service.GetVariant(c.Request.Context(), p.ID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

// UpdateVariant handles PUT /products/:id/variants/:variantId.
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	variantID, ok := h.ParamID(c, "variantId")
	if !ok {
		return
	}

	var req dto.UpdateVariantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v, err := h.service.GetVariant(c.Request.Context(), p.ID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(v)

	if err := h.service.UpdateVariant(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

// DeleteVariant handles DELETE /products/:id/variants/:variantId.
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	variantID, ok := h.ParamID(c, "variantId")
	if !ok {
		return
	}

	// Resolve through the product to reject foreign variant IDs.
	v, err := h.service.GetVariant(c.Request.Context(), p.ID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.DeleteVariant(c.Request.Context(), v.ID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Stock handles GET /products/:id/stock. Reads the live projection
// through the stock register.
func (h *ProductHandler) Stock(c *gin.Context) {
	p, ok := h.guardProduct(c)
	if !ok {
		return
	}

	qty, err := h.stock.ProductStock(c.Request.Context(), p.ID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId": p.ID,
		"stock":     qty,
	})
}
