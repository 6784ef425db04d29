package paymentmock

import (
	"context"
	"errors"

	domain "github.com/MaasMateus/desafio-serasa/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("paymentmock: method not implemented")

// Repo is a function-backed mock that satisfies payment.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, p *domain.Payment) error
	ListByLoanIDFn func(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, errUnimplemented
}
