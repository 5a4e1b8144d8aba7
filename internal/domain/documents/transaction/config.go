package transaction

import "comercia/pkg/numerator"

const (
	// NumberPrefix is the invoice number prefix.
	NumberPrefix = "INV"

	// NumeratorStrategy defines the numbering strategy. Transactions are
	// primary accounting documents, so numbers must be gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
