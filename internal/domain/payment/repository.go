package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// Oldest first, by sequence.
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Payment, error)
}
