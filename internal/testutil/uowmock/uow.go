package uowmock

import (
	"context"
	"errors"
	"sync"

	"github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/uow"
)

var (
	_ uow.UnitOfWork = (*UoW)(nil)
	_ uow.UnitOfWork = (*Serialized)(nil)
)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}

// Serialized runs every unit of work under one mutex, mimicking the
// per-row locking the real implementation gets from the database. Handy
// for exercising concurrent flows without a database.
type Serialized struct {
	mu    sync.Mutex
	Repos uow.Repos
}

func NewSerialized(r uow.Repos) *Serialized { return &Serialized{Repos: r} }

func (s *Serialized) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.Repos)
}

func (s *Serialized) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.Repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		return err
	}
	return fn(s.Repos, l)
}
