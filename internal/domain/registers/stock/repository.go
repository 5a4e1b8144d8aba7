// Package stock provides the stock ledger and the on-hand projection.
package stock

import (
	"context"
	"time"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Repository defines storage operations for the ledger and the projection.
//
// The *ForUpdate reads take a row lock held until the enclosing unit of
// work commits. All projection mutations must go through a prior locked
// read inside the same unit.
type Repository interface {
	// Ledger

	// CreateMovements batch inserts ledger rows. Rows are append-only.
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsByTransaction retrieves all ledger rows tied to a transaction.
	GetMovementsByTransaction(ctx context.Context, transactionID id.ID) ([]entity.StockMovement, error)

	// GetMovementHistory returns filtered ledger rows for a business.
	GetMovementHistory(ctx context.Context, businessID id.ID, filter MovementFilter) ([]entity.StockMovement, int64, error)

	// Projection

	// GetProductStockForUpdate returns current product stock with a row lock.
	GetProductStockForUpdate(ctx context.Context, productID id.ID) (int64, error)

	// GetVariantStockForUpdate returns current variant stock with a row lock.
	GetVariantStockForUpdate(ctx context.Context, variantID id.ID) (int64, error)

	// AddProductStock shifts product stock by a signed delta.
	AddProductStock(ctx context.Context, productID id.ID, delta int64) error

	// AddVariantStock shifts variant stock by a signed delta.
	AddVariantStock(ctx context.Context, variantID id.ID, delta int64) error

	// GetProductStock returns current stock without locking (reads).
	GetProductStock(ctx context.Context, productID id.ID) (int64, error)
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	ProductID     *id.ID
	VariantID     *id.ID
	TransactionID *id.ID
	Type          *entity.MovementType
	FromDate      *time.Time
	ToDate        *time.Time
	Limit         int
	Offset        int
}
