package debts

import (
	"context"
	"fmt"
	"time"

	"comercia/internal/core/apperror"
	"comercia/internal/core/id"
	"comercia/internal/core/tx"
	"comercia/internal/core/types"
	"comercia/internal/domain"
	"comercia/pkg/logger"
)

// NewDebt is the input for creating a debt from a transaction.
type NewDebt struct {
	BusinessID    id.ID
	TransactionID id.ID
	TotalAmount   types.Money

	// DueDate is optional; today is used as the fallback.
	DueDate      *time.Time
	InterestRate *types.Money
	TermMonths   *int
}

// NewPaymentInput is the input for recording a payment.
type NewPaymentInput struct {
	DebtID          id.ID
	Amount          types.Money
	Date            time.Time
	PaymentMethodID *id.ID
	Note            string
}

// Service provides business operations for debts and their payments.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new debts service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// CreateForTransaction creates the debt of a transaction. Each
// transaction gets at most one debt; a second call is a no-op returning
// the existing record. Runs in the caller's unit of work when one is
// active.
func (s *Service) CreateForTransaction(ctx context.Context, input NewDebt) (*Debt, error) {
	existing, err := s.repo.GetByTransaction(ctx, input.TransactionID)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check existing debt: %w", err)
	}

	due := time.Now().UTC().Truncate(24 * time.Hour)
	if input.DueDate != nil {
		due = *input.DueDate
	}

	d := New(input.BusinessID, input.TransactionID, input.TotalAmount, due)
	d.InterestRate = input.InterestRate
	d.TermMonths = input.TermMonths

	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	logger.Info(ctx, "debt created",
		"debt_id", d.ID,
		"transaction_id", input.TransactionID,
		"total", d.TotalAmount.String(),
	)
	return d, nil
}

// RecordPayment appends a payment and atomically rolls it into the
// debt's paid amount. The debt row is locked for the duration, so two
// concurrent payments cannot lose an increment. Overpayment is allowed;
// callers wanting a cap must enforce it themselves.
func (s *Service) RecordPayment(ctx context.Context, input NewPaymentInput) (*Debt, error) {
	p := NewPayment(input.DebtID, input.Amount, input.Date)
	p.PaymentMethodID = input.PaymentMethodID
	p.Note = input.Note

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	var d *Debt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = s.repo.GetByIDForUpdate(ctx, input.DebtID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("debt", input.DebtID.String())
			}
			return err
		}

		if err := s.repo.CreatePayment(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		d.ApplyPayment(input.Amount)
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update debt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "debt payment recorded",
		"debt_id", d.ID,
		"amount", input.Amount.String(),
		"settled", d.IsSettled,
	)
	return d, nil
}

// GetByID retrieves a debt.
func (s *Service) GetByID(ctx context.Context, debtID id.ID) (*Debt, error) {
	d, err := s.repo.GetByID(ctx, debtID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("debt", debtID.String())
		}
		return nil, err
	}
	return d, nil
}

// GetByTransaction retrieves the debt of a transaction.
func (s *Service) GetByTransaction(ctx context.Context, transactionID id.ID) (*Debt, error) {
	return s.repo.GetByTransaction(ctx, transactionID)
}

// List retrieves debts with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Debt], error) {
	return s.repo.List(ctx, filter)
}

// ListPayments retrieves all payments of a debt.
func (s *Service) ListPayments(ctx context.Context, debtID id.ID) ([]*Payment, error) {
	if _, err := s.GetByID(ctx, debtID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, debtID)
}
