package transaction

import (
	"context"
	"time"

	"comercia/internal/core/id"
	"comercia/internal/domain"
)

// Repository defines the interface for Transaction persistence.
type Repository interface {
	// Create inserts the transaction row.
	Create(ctx context.Context, t *Transaction) error

	// Update modifies the transaction row (with optimistic locking).
	Update(ctx context.Context, t *Transaction) error

	// GetByID retrieves a transaction without details.
	GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error)

	// GetDetails retrieves the owned line items ordered by line number.
	GetDetails(ctx context.Context, transactionID id.ID) ([]Detail, error)

	// SaveDetails replaces the owned line items. Detail rows are fully
	// owned by the transaction, so delete-and-recreate is safe; ledger
	// rows keep their own copy of the detail reference.
	SaveDetails(ctx context.Context, transactionID id.ID, details []Detail) error

	// SetStatus reassigns the lifecycle status.
	SetStatus(ctx context.Context, transactionID, statusID id.ID) error

	// List retrieves transactions with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error)
}

// ListFilter extends the common list filter with transaction fields.
type ListFilter struct {
	domain.ListFilter

	Type          *Type
	CustomerID    *id.ID
	SupplierID    *id.ID
	EmployeeID    *id.ID
	StatusID      *id.ID
	PaymentStatus *string
	FromDate      *time.Time
	ToDate        *time.Time
}
