package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/core/scope"
	"comercia/internal/domain"
	"comercia/internal/domain/documents/transaction"
	"comercia/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles HTTP requests for transaction documents.
type TransactionHandler struct {
	*BaseHandler
	service *transaction.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := transaction.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.BusinessID = h.BusinessID(c)
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if txType := c.Query("type"); txType != "" {
		t := transaction.Type(txType)
		if !t.IsValid() {
			h.Error(c, apperror.NewValidation("invalid transaction type").WithDetail("type", txType))
			return
		}
		filter.Type = &t
	}

	var ok bool
	if filter.CustomerID, ok = h.queryID(c, "customerId"); !ok {
		return
	}
	if filter.SupplierID, ok = h.queryID(c, "supplierId"); !ok {
		return
	}
	if filter.EmployeeID, ok = h.queryID(c, "employeeId"); !ok {
		return
	}
	if filter.StatusID, ok = h.queryID(c, "statusId"); !ok {
		return
	}

	if ps := c.Query("paymentStatus"); ps != "" {
		filter.PaymentStatus = &ps
	}

	if filter.FromDate, ok = h.queryDate(c, "fromDate"); !ok {
		return
	}
	if filter.ToDate, ok = h.queryDate(c, "toDate"); !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
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

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	t, ok := h.guard(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, t)
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, ok := req.ToEntity(h.BusinessID(c))
	if !ok {
		h.Error(c, apperror.NewValidation("invalid id format in request body"))
		return
	}

	if err := h.service.Create(ctx, t); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Update handles PUT /transactions/:id. The engine reconciles stock to
// the edited line items inside one unit of work.
func (h *TransactionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	t, ok := h.guard(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if !req.ApplyTo(t) {
		h.Error(c, apperror.NewValidation("invalid id format in request body"))
		return
	}

	if err := h.service.Update(ctx, t); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.GetByID(ctx, t.ID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /transactions/:id. The document is soft-deleted
// and its stock effect neutralized; the ledger keeps full history.
func (h *TransactionHandler) Delete(c *gin.Context) {
	t, ok := h.guard(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), t.ID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterReturn handles POST /transactions/:id/return.
func (h *TransactionHandler) RegisterReturn(c *gin.Context) {
	t, ok := h.guard(c)
	if !ok {
		return
	}

	var req dto.RegisterReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items, ok := req.ToItems()
	if !ok {
		h.Error(c, apperror.NewValidation("invalid detail id format"))
		return
	}

	if err := h.service.RegisterReturn(c.Request.Context(), t.ID, items, req.Note); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "return registered")
}

// guard loads the transaction and authorizes row access.
func (h *TransactionHandler) guard(c *gin.Context) (*transaction.Transaction, bool) {
	transactionID, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}

	t, err := h.service.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	if err := scope.CheckBusiness(c.Request.Context(), scope.KindTransaction, t.BusinessID); err != nil {
		h.Error(c, err)
		return nil, false
	}

	return t, true
}

func (h *TransactionHandler) queryID(c *gin.Context, key string) (*id.ID, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := id.Parse(val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", key))
		return nil, false
	}
	return &parsed, true
}

func (h *TransactionHandler) queryDate(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Calendar dates are accepted too.
		parsed, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", key))
			return nil, false
		}
	}
	return &parsed, true
}
