package loan

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/payment"
	"github.com/MaasMateus/desafio-serasa/internal/domain/uow"
	"github.com/MaasMateus/desafio-serasa/pkg/id"
)

// Bounds is the confirmation-stage amount policy. Its ceiling is higher
// than the request-stage one so that offers above the request range can
// still be confirmed; both gates run independently.
type Bounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type Usecase struct {
	loans  loandomain.Repository
	uow    uow.UnitOfWork
	bounds Bounds
	log    *logrus.Logger
}

func NewUsecase(loans loandomain.Repository, tx uow.UnitOfWork, bounds Bounds, log *logrus.Logger) *Usecase {
	return &Usecase{loans: loans, uow: tx, bounds: bounds, log: log}
}

type ConfirmInput struct {
	Principal        decimal.Decimal
	InstallmentCount int
}

type LoanDTO struct {
	LoanID                string          `json:"loan_id"`
	UserID                string          `json:"user_id"`
	Principal             decimal.Decimal `json:"principal"`
	InstallmentCount      int             `json:"installment_count"`
	InstallmentAmount     decimal.Decimal `json:"installment_amount"`
	TotalPayable          decimal.Decimal `json:"total_payable"`
	InstallmentsRemaining int             `json:"installments_remaining"`
	Active                bool            `json:"active"`
	ReviewRequired        bool            `json:"review_required"`
	CreatedAt             time.Time       `json:"created_at"`
}

func toDTO(l *loandomain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:                l.LoanID,
		UserID:                l.UserID,
		Principal:             l.Principal,
		InstallmentCount:      l.InstallmentCount,
		InstallmentAmount:     l.InstallmentAmount,
		TotalPayable:          l.InstallmentAmount.Mul(decimal.NewFromInt(int64(l.InstallmentCount))),
		InstallmentsRemaining: l.InstallmentsRemaining,
		Active:                l.Active,
		ReviewRequired:        l.ReviewRequired,
		CreatedAt:             l.CreatedAt,
	}
}

// Confirm re-validates the requested terms against the confirmation-stage
// bounds, recomputes the repayment figures and persists the loan. A loan
// whose installment exceeds 30% of the user's declared income is still
// created, only flagged for manual review.
func (u *Usecase) Confirm(ctx context.Context, userID string, in ConfirmInput) (*LoanDTO, error) {
	if in.Principal.LessThan(u.bounds.Min) || in.Principal.GreaterThan(u.bounds.Max) {
		return nil, loandomain.ErrInvalidAmount
	}
	if !loandomain.ValidInstallmentCount(in.InstallmentCount) {
		return nil, loandomain.ErrInvalidInstallmentCount
	}

	terms := loandomain.ComputeTerms(in.Principal, in.InstallmentCount)

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		review := terms.InstallmentAmount.GreaterThan(loandomain.AffordableInstallment(usr.MonthlyIncome))

		l := &loandomain.Loan{
			LoanID:                id.NewID32(),
			UserID:                usr.UserID,
			Principal:             terms.Principal,
			InstallmentCount:      terms.InstallmentCount,
			InstallmentAmount:     terms.InstallmentAmount,
			InstallmentsRemaining: terms.InstallmentCount,
			Active:                true,
			ReviewRequired:        review,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dto.ReviewRequired {
		u.log.WithFields(logrus.Fields{
			"loan_id":     dto.LoanID,
			"user_id":     userID,
			"installment": dto.InstallmentAmount.String(),
		}).Warn("installment above 30% of declared income, flagged for review")
	}
	return dto, nil
}

// PayInstallment settles one installment. The whole read-modify-write runs
// inside a per-loan row-locked transaction so concurrent payments against
// the same loan cannot under-count.
func (u *Usecase) PayInstallment(ctx context.Context, loanID, requesterID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loandomain.Loan) error {
		if l.UserID != requesterID {
			return loandomain.ErrForbidden
		}
		if l.InstallmentsRemaining <= 0 {
			return loandomain.ErrAlreadyPaid
		}

		p := &payment.Payment{
			PaymentID: id.NewID32(),
			LoanID:    l.ID,
			Amount:    l.InstallmentAmount,
			Sequence:  l.InstallmentCount - l.InstallmentsRemaining + 1,
			PaidAt:    time.Now().UTC(),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		l.InstallmentsRemaining--
		if l.InstallmentsRemaining == 0 {
			l.Active = false
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loandomain.ErrNotFound
		}
		return nil, err
	}

	if !dto.Active {
		u.log.WithField("loan_id", dto.LoanID).Info("loan paid off")
	}
	return dto, nil
}

// ListByUser returns the user's loans, nearly-paid-off ones first.
func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}

// Get fetches a single loan; only its owner may see it.
func (u *Usecase) Get(ctx context.Context, loanID, requesterID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loandomain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != requesterID {
		return nil, loandomain.ErrForbidden
	}
	return toDTO(l), nil
}
