package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/domain/registers/stock"
	"comercia/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// History handles GET /stock/movements. The ledger is append-only;
// this is a read window over it, scoped to the caller's business.
func (h *StockHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.ProductID, ok = h.queryID(c, "productId"); !ok {
		return
	}
	if filter.VariantID, ok = h.queryID(c, "variantId"); !ok {
		return
	}
	if filter.TransactionID, ok = h.queryID(c, "transactionId"); !ok {
		return
	}

	if mt := c.Query("type"); mt != "" {
		parsed := entity.MovementType(mt)
		if !parsed.IsValid() {
			h.Error(c, apperror.NewValidation("invalid movement type").WithDetail("type", mt))
			return
		}
		filter.Type = &parsed
	}

	if filter.FromDate, ok = h.queryDate(c, "fromDate"); !ok {
		return
	}
	if filter.ToDate, ok = h.queryDate(c, "toDate"); !ok {
		return
	}

	movements, total, err := h.service.History(ctx, h.BusinessID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      movements,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// MovementsByTransaction handles GET /transactions/:id/movements.
func (h *StockHandler) MovementsByTransaction(c *gin.Context) {
	transactionID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	movements, err := h.service.MovementsByTransaction(c.Request.Context(), transactionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      movements,
		TotalCount: int64(len(movements)),
		Limit:      len(movements),
	})
}

func (h *StockHandler) queryID(c *gin.Context, key string) (*id.ID, bool) {
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

func (h *StockHandler) queryDate(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", key))
			return nil, false
		}
	}
	return &parsed, true
}
