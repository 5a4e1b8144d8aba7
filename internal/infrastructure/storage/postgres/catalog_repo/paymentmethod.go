package catalog_repo

import (
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/infrastructure/storage/postgres"
)

const paymentMethodTable = "cat_payment_method"

// PaymentMethodRepo implements paymentmethod.Repository.
type PaymentMethodRepo struct {
	*BaseCatalogRepo[*paymentmethod.PaymentMethod]
}

// NewPaymentMethodRepo creates a new payment method repository.
func NewPaymentMethodRepo(txManager *postgres.TxManager) *PaymentMethodRepo {
	return &PaymentMethodRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentMethodTable,
			postgres.ExtractDBColumns[paymentmethod.PaymentMethod](),
			false,
			func() *paymentmethod.PaymentMethod { return &paymentmethod.PaymentMethod{} },
		),
	}
}
