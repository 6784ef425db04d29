package quote

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
)

// Bounds is the request-stage amount policy. The confirmation step applies
// its own, looser ceiling (see usecase/loan); the two gates are intentionally
// independent.
type Bounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type Usecase struct {
	users  user.Repository
	bounds Bounds
	log    *logrus.Logger
}

func NewUsecase(users user.Repository, bounds Bounds, log *logrus.Logger) *Usecase {
	return &Usecase{users: users, bounds: bounds, log: log}
}

type Input struct {
	Principal        decimal.Decimal
	InstallmentCount int
	// Newly declared monthly income; nil when the caller did not declare one.
	MonthlyIncome *decimal.Decimal
}

type DTO struct {
	Principal         decimal.Decimal `json:"principal"`
	InstallmentCount  int             `json:"installment_count"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
}

// Compute validates the requested terms and returns the repayment figures.
// When the acting user declared an income that differs from the one on
// file, the stored income is rewritten as part of this step. The coupling
// is deliberate: the quote form doubles as the income-declaration form.
func (u *Usecase) Compute(ctx context.Context, userID string, in Input) (*DTO, error) {
	if in.Principal.LessThan(u.bounds.Min) || in.Principal.GreaterThan(u.bounds.Max) {
		return nil, loandomain.ErrInvalidAmount
	}
	if !loandomain.ValidInstallmentCount(in.InstallmentCount) {
		return nil, loandomain.ErrInvalidInstallmentCount
	}

	terms := loandomain.ComputeTerms(in.Principal, in.InstallmentCount)

	if userID != "" && in.MonthlyIncome != nil {
		usr, err := u.users.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !usr.MonthlyIncome.Equal(*in.MonthlyIncome) {
			usr.MonthlyIncome = *in.MonthlyIncome
			if err := u.users.Save(ctx, usr); err != nil {
				return nil, err
			}
			u.log.WithFields(logrus.Fields{
				"user_id": userID,
				"income":  in.MonthlyIncome.String(),
			}).Info("updated declared income during quote")
		}
	}

	return &DTO{
		Principal:         terms.Principal,
		InstallmentCount:  terms.InstallmentCount,
		TotalPayable:      terms.TotalPayable,
		InstallmentAmount: terms.InstallmentAmount,
	}, nil
}
