package entity

import (
	"time"

	"comercia/internal/core/id"
)

// MovementType tags the cause of a stock movement.
type MovementType string

const (
	// MovementEntry records goods arriving (purchases, initial load)
	MovementEntry MovementType = "entry"
	// MovementSale records goods leaving through a sale
	MovementSale MovementType = "sale"
	// MovementAdjustment records a correction: reconciliation deltas,
	// neutralization on soft delete, returns
	MovementAdjustment MovementType = "adjustment"
)

// IsValid reports whether the type is one of the recognized values.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementEntry, MovementSale, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is an append-only ledger row. Rows are never updated or
// deleted; corrections arrive as new adjustment rows carrying the
// offsetting delta.
type StockMovement struct {
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	VariantID *id.ID `db:"variant_id" json:"variantId,omitempty"`

	// TransactionID and DetailID are weak references for audit and for
	// computing a transaction's net committed effect. Nil for manual
	// entries.
	TransactionID *id.ID `db:"transaction_id" json:"transactionId,omitempty"`
	DetailID      *id.ID `db:"detail_id" json:"detailId,omitempty"`

	Type MovementType `db:"type" json:"type"`

	// Quantity is the signed stock delta in whole units.
	Quantity int64 `db:"quantity" json:"quantity"`

	Note      string    `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a ledger row tied to a transaction line.
func NewStockMovement(mt MovementType, productID id.ID, variantID *id.ID, transactionID, detailID *id.ID, quantity int64, note string) StockMovement {
	return StockMovement{
		ID:            id.New(),
		ProductID:     productID,
		VariantID:     variantID,
		TransactionID: transactionID,
		DetailID:      detailID,
		Type:          mt,
		Quantity:      quantity,
		Note:          note,
		CreatedAt:     time.Now().UTC(),
	}
}
