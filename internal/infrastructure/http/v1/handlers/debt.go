package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/apperror"
	"comercia/internal/core/scope"
	"comercia/internal/domain"
	"comercia/internal/domain/debts"
	"comercia/internal/infrastructure/http/v1/dto"
)

// DebtHandler handles HTTP requests for debts and payments. Debts are
// created by the transaction engine, never directly; this API reads
// them and records payments.
type DebtHandler struct {
	*BaseHandler
	service *debts.Service
}

// NewDebtHandler creates a new debt handler.
func NewDebtHandler(base *BaseHandler, service *debts.Service) *DebtHandler {
	return &DebtHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /debts.
func (h *DebtHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.BusinessID = h.BusinessID(c)
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

// Get handles GET /debts/:id.
func (h *DebtHandler) Get(c *gin.Context) {
	d, ok := h.guard(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, d)
}

// RecordPayment handles POST /debts/:id/payments.
func (h *DebtHandler) RecordPayment(c *gin.Context) {
	d, ok := h.guard(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, ok := req.ToInput(d.ID)
	if !ok {
		h.Error(c, apperror.NewValidation("invalid payment method id format"))
		return
	}

	updated, err := h.service.RecordPayment(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListPayments handles GET /debts/:id/payments.
func (h *DebtHandler) ListPayments(c *gin.Context) {
	d, ok := h.guard(c)
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), d.ID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      payments,
		TotalCount: int64(len(payments)),
		Limit:      len(payments),
	})
}

// guard loads the debt and authorizes row access.
func (h *DebtHandler) guard(c *gin.Context) (*debts.Debt, bool) {
	debtID, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}

	d, err := h.service.GetByID(c.Request.Context(), debtID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	if err := scope.CheckBusiness(c.Request.Context(), scope.KindDebt, d.BusinessID); err != nil {
		h.Error(c, err)
		return nil, false
	}

	return d, true
}
