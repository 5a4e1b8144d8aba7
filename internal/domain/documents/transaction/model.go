// Package transaction provides the Transaction document: a sale, purchase
// or expense with its line items. The service in this package is the
// consistency engine that keeps stock counters, the stock ledger and debt
// records in agreement as transactions are created, edited, soft-deleted
// or partially returned.
package transaction

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain/registers/stock"
)

// Type classifies a transaction for inventory-effect purposes.
type Type string

const (
	TypeSale     Type = "sale"
	TypePurchase Type = "purchase"
	TypeExpense  Type = "expense"
)

// IsValid reports whether the type is one of the recognized values.
func (t Type) IsValid() bool {
	switch t {
	case TypeSale, TypePurchase, TypeExpense:
		return true
	}
	return false
}

// Sign returns the stock sign of one unit: sale removes stock, purchase
// adds it, expense has no inventory effect.
func (t Type) Sign() int64 {
	switch t {
	case TypeSale:
		return -1
	case TypePurchase:
		return 1
	default:
		return 0
	}
}

// MovementType returns the ledger type for movements created by this
// transaction type at creation time.
func (t Type) MovementType() entity.MovementType {
	if t == TypePurchase {
		return entity.MovementEntry
	}
	return entity.MovementSale
}

// Payment statuses that imply an outstanding debt.
const (
	PaymentPartial = "partial"
	PaymentPending = "pending"
)

// Transaction is a sale, purchase or expense document.
type Transaction struct {
	entity.Document

	Type Type `db:"type" json:"type"`

	CustomerID      *id.ID `db:"customer_id" json:"customerId,omitempty"`
	SupplierID      *id.ID `db:"supplier_id" json:"supplierId,omitempty"`
	EmployeeID      *id.ID `db:"employee_id" json:"employeeId,omitempty"`
	PaymentMethodID *id.ID `db:"payment_method_id" json:"paymentMethodId,omitempty"`

	// DiscountPercent is an optional percentage in [0, 100] applied to
	// the sum of line totals.
	DiscountPercent types.Money `db:"discount_percent" json:"discountPercent"`

	// PaymentStatus is free text; "partial" and "pending" (any case)
	// mark the transaction as debt-bearing.
	PaymentStatus string `db:"payment_status" json:"paymentStatus,omitempty"`

	// IsDebt explicitly flags the transaction as a debt.
	IsDebt bool `db:"is_debt" json:"isDebt"`

	// TotalValue is the discounted sum of line totals, frozen per save.
	TotalValue types.Money `db:"total_value" json:"totalValue"`

	// StatusID points into the EntityStatus catalog. Soft delete
	// reassigns it to the "deleted" status.
	StatusID *id.ID `db:"status_id" json:"statusId,omitempty"`

	// Details is the owned table part.
	Details []Detail `db:"-" json:"details"`
}

// Detail is one line item of a transaction.
type Detail struct {
	ID            id.ID `db:"id" json:"id"`
	TransactionID id.ID `db:"transaction_id" json:"transactionId"`
	LineNo        int   `db:"line_no" json:"lineNo"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	VariantID *id.ID `db:"variant_id" json:"variantId,omitempty"`

	// Quantity in whole units. Always positive; the transaction type
	// carries the sign.
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is a pricing snapshot taken at save time. Later catalog
	// price changes never affect this line.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TotalPrice = UnitPrice * Quantity.
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// HasUnitPrice marks an explicitly supplied price; zero is a legal
	// explicit price. When false the engine snapshots the catalog price
	// at save time. Repositories set it on load.
	HasUnitPrice bool `db:"-" json:"-"`
}

// New creates a Transaction.
func New(businessID id.ID, txType Type) *Transaction {
	return &Transaction{
		Document: entity.NewDocument(businessID),
		Type:     txType,
		Details:  make([]Detail, 0),
	}
}

// AddDetail appends a line item. Pass a nil unitPrice to have the engine
// resolve it from the product catalog at save time.
func (t *Transaction) AddDetail(productID id.ID, variantID *id.ID, quantity int64, unitPrice *types.Money) {
	d := Detail{
		ID:            id.New(),
		TransactionID: t.ID,
		LineNo:        len(t.Details) + 1,
		ProductID:     productID,
		VariantID:     variantID,
		Quantity:      quantity,
	}
	if unitPrice != nil {
		d.UnitPrice = *unitPrice
		d.TotalPrice = unitPrice.Mul(decimal.NewFromInt(quantity))
		d.HasUnitPrice = true
	}
	t.Details = append(t.Details, d)
}

// RecalculateTotal recomputes line totals and the discounted grand total.
// Line prices must already be resolved.
func (t *Transaction) RecalculateTotal() {
	sum := types.Zero()
	for i := range t.Details {
		d := &t.Details[i]
		d.TotalPrice = d.UnitPrice.Mul(decimal.NewFromInt(d.Quantity))
		sum = sum.Add(d.TotalPrice)
	}
	t.TotalValue = types.RoundMoney(types.ApplyDiscount(sum, t.DiscountPercent))
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if !t.Type.IsValid() {
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}

	if t.DiscountPercent.IsNegative() || t.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidation("discount must be between 0 and 100").
			WithDetail("field", "discountPercent")
	}

	if len(t.Details) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "details")
	}

	for i, d := range t.Details {
		if id.IsNil(d.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "details").
				WithDetail("lineNo", i+1)
		}
		if d.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "details").
				WithDetail("lineNo", i+1)
		}
		if d.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "details").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// DesiredEffect groups line items into the net stock effect this
// transaction should have, per (product, variant) key. Empty for expense,
// so reconciling an expense against its committed effect neutralizes
// everything.
func (t *Transaction) DesiredEffect() stock.Effect {
	e := make(stock.Effect)
	sign := t.Type.Sign()
	if sign == 0 {
		return e
	}
	for _, d := range t.Details {
		e.Add(stock.KeyFor(d.ProductID, d.VariantID), sign*d.Quantity)
	}
	return e
}

// NeedsDebt reports whether creating this transaction must also create a
// debt record: flagged explicitly, or payment status partial/pending.
func (t *Transaction) NeedsDebt() bool {
	if t.IsDebt {
		return true
	}
	switch strings.ToLower(t.PaymentStatus) {
	case PaymentPartial, PaymentPending:
		return true
	}
	return false
}

// DetailByID finds an owned line item, nil when the reference is foreign.
func (t *Transaction) DetailByID(detailID id.ID) *Detail {
	for i := range t.Details {
		if t.Details[i].ID == detailID {
			return &t.Details[i]
		}
	}
	return nil
}
