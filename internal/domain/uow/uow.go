package uow

import (
	"context"

	"github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/payment"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
)

type Repos struct {
	Users    user.Repository
	Loans    loan.Repository
	Payments payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
