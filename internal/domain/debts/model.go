// Package debts tracks money owed for unpaid or partially paid
// transactions. A debt is derived from its transaction: total_amount is
// frozen from the transaction total at creation and only paid_amount
// moves afterwards, through recorded payments.
package debts

import (
	"context"
	"time"

	"comercia/internal/core/apperror"
	"comercia/internal/core/entity"
	"comercia/internal/core/id"
	"comercia/internal/core/types"
)

// Debt is the outstanding balance of one transaction. At most one debt
// exists per transaction.
type Debt struct {
	entity.Base
	entity.Owned

	TransactionID id.ID `db:"transaction_id" json:"transactionId"`

	// TotalAmount is frozen from the transaction total at creation.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// PaidAmount accumulates recorded payments. Overpayment is allowed:
	// the engine never rejects a payment for exceeding the total.
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	InterestRate *types.Money `db:"interest_rate" json:"interestRate,omitempty"`
	TermMonths   *int         `db:"term_months" json:"termMonths,omitempty"`

	// DueDate defaults to the creation day when the caller gives none.
	DueDate time.Time `db:"due_date" json:"dueDate"`

	// IsSettled is derived: paid_amount >= total_amount.
	IsSettled bool `db:"is_settled" json:"isSettled"`
}

// New creates a Debt for a transaction.
func New(businessID, transactionID id.ID, total types.Money, dueDate time.Time) *Debt {
	return &Debt{
		Base:          entity.NewBase(),
		Owned:         entity.Owned{BusinessID: businessID},
		TransactionID: transactionID,
		TotalAmount:   total,
		PaidAmount:    types.Zero(),
		DueDate:       dueDate,
	}
}

// Validate implements entity.Validatable.
func (d *Debt) Validate(ctx context.Context) error {
	if err := d.ValidateOwner(ctx); err != nil {
		return err
	}
	if id.IsNil(d.TransactionID) {
		return apperror.NewValidation("transaction is required").
			WithDetail("field", "transactionId")
	}
	if d.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount cannot be negative").
			WithDetail("field", "totalAmount")
	}
	if d.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}
	return nil
}

// ApplyPayment increments the paid amount and re-derives settlement.
func (d *Debt) ApplyPayment(amount types.Money) {
	d.PaidAmount = d.PaidAmount.Add(amount)
	d.IsSettled = d.PaidAmount.GreaterThanOrEqual(d.TotalAmount)
	d.Touch()
}

// Outstanding returns the remaining balance, never negative.
func (d *Debt) Outstanding() types.Money {
	rest := d.TotalAmount.Sub(d.PaidAmount)
	if rest.IsNegative() {
		return types.Zero()
	}
	return rest
}

// Payment is one recorded payment against a debt.
type Payment struct {
	entity.Base

	DebtID id.ID `db:"debt_id" json:"debtId"`

	Amount types.Money `db:"amount" json:"amount"`
	Date   time.Time   `db:"date" json:"date"`

	PaymentMethodID *id.ID `db:"payment_method_id" json:"paymentMethodId,omitempty"`

	Note string `db:"note" json:"note,omitempty"`
}

// NewPayment creates a Payment.
func NewPayment(debtID id.ID, amount types.Money, date time.Time) *Payment {
	return &Payment{
		Base:   entity.NewBase(),
		DebtID: debtID,
		Amount: amount,
		Date:   date,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.DebtID) {
		return apperror.NewValidation("debt is required").
			WithDetail("field", "debtId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	if p.Date.IsZero() {
		return apperror.NewValidation("payment date is required").
			WithDetail("field", "date")
	}
	return nil
}
