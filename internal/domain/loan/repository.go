package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Same lookup with a SELECT ... FOR UPDATE row lock; only meaningful
	// inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// Nearly-paid-off loans first.
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
}
