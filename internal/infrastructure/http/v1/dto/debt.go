package dto

import (
	"time"

	"comercia/internal/core/id"
	"comercia/internal/core/types"
	"comercia/internal/domain/debts"
)

// RecordPaymentRequest for paying down a debt.
type RecordPaymentRequest struct {
	Amount          types.Money `json:"amount" binding:"required"`
	Date            *time.Time  `json:"date,omitempty"`
	PaymentMethodID *string     `json:"paymentMethodId,omitempty"`
	Note            string      `json:"note,omitempty"`
}

// ToInput builds the domain payment input. Returns false on a malformed
// payment method ID.
func (r *RecordPaymentRequest) ToInput(debtID id.ID) (debts.NewPaymentInput, bool) {
	methodID, ok := ParseID(r.PaymentMethodID)
	if !ok {
		return debts.NewPaymentInput{}, false
	}

	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}

	return debts.NewPaymentInput{
		DebtID:          debtID,
		Amount:          r.Amount,
		Date:            date,
		PaymentMethodID: methodID,
		Note:            r.Note,
	}, true
}
