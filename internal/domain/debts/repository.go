package debts

import (
	"context"

	"comercia/internal/core/id"
	"comercia/internal/domain"
)

// Repository defines the interface for Debt persistence.
type Repository interface {
	// Create inserts a debt.
	Create(ctx context.Context, d *Debt) error

	// GetByID retrieves a debt.
	GetByID(ctx context.Context, debtID id.ID) (*Debt, error)

	// GetByIDForUpdate retrieves a debt with a row lock. Payments mutate
	// paid_amount, so concurrent payments must serialize on the row.
	GetByIDForUpdate(ctx context.Context, debtID id.ID) (*Debt, error)

	// GetByTransaction retrieves the debt of a transaction, if any.
	GetByTransaction(ctx context.Context, transactionID id.ID) (*Debt, error)

	// Update persists accumulated payments and settlement state.
	Update(ctx context.Context, d *Debt) error

	// List retrieves debts with filtering.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Debt], error)

	// CreatePayment appends a payment row.
	CreatePayment(ctx context.Context, p *Payment) error

	// ListPayments retrieves all payments of a debt, oldest first.
	ListPayments(ctx context.Context, debtID id.ID) ([]*Payment, error)
}
