package loan

import "github.com/shopspring/decimal"

// markupFactor is 1 + the fixed markup rate applied to every principal.
var markupFactor = decimal.NewFromFloat(1.15)

// Terms are the computed repayment figures for a principal over a term.
// Both derived values are rounded half-up to cents, each from the same
// single rounding step (the installment divides the already-rounded total).
type Terms struct {
	Principal         decimal.Decimal
	InstallmentCount  int
	TotalPayable      decimal.Decimal
	InstallmentAmount decimal.Decimal
}

func ComputeTerms(principal decimal.Decimal, installmentCount int) Terms {
	total := principal.Mul(markupFactor).Round(2)
	per := total.Div(decimal.NewFromInt(int64(installmentCount))).Round(2)
	return Terms{
		Principal:         principal,
		InstallmentCount:  installmentCount,
		TotalPayable:      total,
		InstallmentAmount: per,
	}
}

// AffordableInstallment is the largest installment a user is assumed to
// sustain: 30% of declared monthly income.
func AffordableInstallment(monthlyIncome decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Div(decimal.NewFromInt(10)).Mul(decimal.NewFromInt(3))
}
