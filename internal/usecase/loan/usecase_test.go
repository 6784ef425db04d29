package loan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/payment"
	"github.com/MaasMateus/desafio-serasa/internal/domain/uow"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
	"github.com/MaasMateus/desafio-serasa/internal/testutil/loanmock"
	"github.com/MaasMateus/desafio-serasa/internal/testutil/paymentmock"
	"github.com/MaasMateus/desafio-serasa/internal/testutil/uowmock"
	"github.com/MaasMateus/desafio-serasa/internal/testutil/usermock"
)

const (
	ownerID    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	strangerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func confirmBounds() Bounds {
	return Bounds{Min: decimal.NewFromInt(1000), Max: decimal.NewFromInt(50000)}
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// confirmRepos wires a user with the given income into a Serialized uow.
func confirmRepos(income int64, created **loandomain.Loan) uow.Repos {
	return uow.Repos{
		Users: &usermock.Repo{
			GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return &user.User{UserID: id, MonthlyIncome: decimal.NewFromInt(income)}, nil
			},
		},
		Loans: &loanmock.Repo{
			CreateFn: func(ctx context.Context, l *loandomain.Loan) error {
				*created = l
				return nil
			},
		},
		Payments: &paymentmock.Repo{},
	}
}

func TestConfirm_CreatesActiveLoan(t *testing.T) {
	var created *loandomain.Loan
	tx := uowmock.NewSerialized(confirmRepos(6000, &created))
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	dto, err := uc.Confirm(context.Background(), ownerID, ConfirmInput{
		Principal:        decimal.NewFromInt(10000),
		InstallmentCount: 24,
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if created == nil {
		t.Fatal("loan was not persisted")
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length = %d", len(dto.LoanID))
	}
	if dto.InstallmentsRemaining != 24 || !dto.Active {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if !dto.InstallmentAmount.Equal(decimal.RequireFromString("479.17")) {
		t.Fatalf("InstallmentAmount = %s, want 479.17", dto.InstallmentAmount)
	}
	// 479.17 is below 30% of 6000
	if dto.ReviewRequired {
		t.Fatal("loan should not be flagged for review")
	}
}

func TestConfirm_FlagsReviewButStillCreates(t *testing.T) {
	// income 1000: affordable installment 300, any quoted installment above
	// that is flagged but never blocked
	var created *loandomain.Loan
	tx := uowmock.NewSerialized(confirmRepos(1000, &created))
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	dto, err := uc.Confirm(context.Background(), ownerID, ConfirmInput{
		Principal:        decimal.NewFromInt(10000),
		InstallmentCount: 12,
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if created == nil {
		t.Fatal("flagged loan must still be persisted")
	}
	if !dto.ReviewRequired {
		t.Fatal("expected review flag")
	}
	if !dto.Active || dto.InstallmentsRemaining != 12 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestConfirm_ConfirmationCeilingIsLooser(t *testing.T) {
	// 45000 is above the request-stage ceiling (20000) but inside the
	// confirmation-stage one (50000); the gates are independent.
	var created *loandomain.Loan
	tx := uowmock.NewSerialized(confirmRepos(20000, &created))
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	if _, err := uc.Confirm(context.Background(), ownerID, ConfirmInput{
		Principal:        decimal.NewFromInt(45000),
		InstallmentCount: 36,
	}); err != nil {
		t.Fatalf("Confirm(45000): %v", err)
	}

	_, err := uc.Confirm(context.Background(), ownerID, ConfirmInput{
		Principal:        decimal.NewFromInt(50001),
		InstallmentCount: 36,
	})
	if !errors.Is(err, loandomain.ErrInvalidAmount) {
		t.Fatalf("Confirm(50001): expected ErrInvalidAmount, got %v", err)
	}
}

func TestConfirm_RejectsBadInstallmentCount(t *testing.T) {
	tx := &uowmock.UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			t.Fatal("transaction must not start on invalid input")
			return nil
		},
	}
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	_, err := uc.Confirm(context.Background(), ownerID, ConfirmInput{
		Principal:        decimal.NewFromInt(10000),
		InstallmentCount: 7,
	})
	if !errors.Is(err, loandomain.ErrInvalidInstallmentCount) {
		t.Fatalf("expected ErrInvalidInstallmentCount, got %v", err)
	}
}

// payHarness is a Serialized uow over one mutable loan record.
func payHarness(l *loandomain.Loan) (*uowmock.Serialized, *[]payment.Payment) {
	payments := &[]payment.Payment{}
	repos := uow.Repos{
		Users: &usermock.Repo{},
		Loans: &loanmock.Repo{
			GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*loandomain.Loan, error) {
				if loanID != l.LoanID {
					return nil, gorm.ErrRecordNotFound
				}
				cp := *l
				return &cp, nil
			},
			SaveFn: func(ctx context.Context, saved *loandomain.Loan) error {
				*l = *saved
				return nil
			},
		},
		Payments: &paymentmock.Repo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error {
				*payments = append(*payments, *p)
				return nil
			},
		},
	}
	return uowmock.NewSerialized(repos), payments
}

func makeActiveLoan(count int) *loandomain.Loan {
	terms := loandomain.ComputeTerms(decimal.NewFromInt(6000), count)
	return &loandomain.Loan{
		ID:                    1,
		LoanID:                "cccccccccccccccccccccccccccccccc",
		UserID:                ownerID,
		Principal:             terms.Principal,
		InstallmentCount:      count,
		InstallmentAmount:     terms.InstallmentAmount,
		InstallmentsRemaining: count,
		Active:                true,
	}
}

func TestPayInstallment_DecrementsAndRecordsPayment(t *testing.T) {
	l := makeActiveLoan(12)
	tx, payments := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	dto, err := uc.PayInstallment(context.Background(), l.LoanID, ownerID)
	if err != nil {
		t.Fatalf("PayInstallment: %v", err)
	}
	if dto.InstallmentsRemaining != 11 || !dto.Active {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(*payments) != 1 {
		t.Fatalf("payments recorded = %d, want 1", len(*payments))
	}
	p := (*payments)[0]
	if p.Sequence != 1 || !p.Amount.Equal(l.InstallmentAmount) {
		t.Fatalf("unexpected payment: %+v", p)
	}
}

func TestPayInstallment_TwelfthPaymentFlipsActive(t *testing.T) {
	l := makeActiveLoan(12)
	tx, _ := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	for i := 1; i <= 12; i++ {
		dto, err := uc.PayInstallment(context.Background(), l.LoanID, ownerID)
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
		if dto.InstallmentsRemaining != 12-i {
			t.Fatalf("payment %d: remaining = %d", i, dto.InstallmentsRemaining)
		}
		wantActive := i < 12
		if dto.Active != wantActive {
			t.Fatalf("payment %d: active = %v, want %v", i, dto.Active, wantActive)
		}
	}
}

func TestPayInstallment_AlreadyPaid(t *testing.T) {
	l := makeActiveLoan(12)
	l.InstallmentsRemaining = 0
	l.Active = false
	tx, payments := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	for i := 0; i < 3; i++ {
		_, err := uc.PayInstallment(context.Background(), l.LoanID, ownerID)
		if !errors.Is(err, loandomain.ErrAlreadyPaid) {
			t.Fatalf("expected ErrAlreadyPaid, got %v", err)
		}
	}
	if l.InstallmentsRemaining != 0 || l.Active {
		t.Fatalf("paid-off loan mutated: %+v", l)
	}
	if len(*payments) != 0 {
		t.Fatalf("payments recorded against paid-off loan: %d", len(*payments))
	}
}

func TestPayInstallment_ForbiddenForNonOwner(t *testing.T) {
	l := makeActiveLoan(12)
	tx, payments := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	_, err := uc.PayInstallment(context.Background(), l.LoanID, strangerID)
	if !errors.Is(err, loandomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if l.InstallmentsRemaining != 12 {
		t.Fatalf("remaining changed to %d", l.InstallmentsRemaining)
	}
	if len(*payments) != 0 {
		t.Fatalf("payment recorded on forbidden call")
	}
}

func TestPayInstallment_UnknownLoan(t *testing.T) {
	l := makeActiveLoan(12)
	tx, _ := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	_, err := uc.PayInstallment(context.Background(), "ffffffffffffffffffffffffffffffff", ownerID)
	if !errors.Is(err, loandomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPayInstallment_ConcurrentPaymentsDoNotUnderCount(t *testing.T) {
	const n = 24
	l := makeActiveLoan(n)
	tx, payments := payHarness(l)
	uc := NewUsecase(&loanmock.Repo{}, tx, confirmBounds(), quietLog())

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PayInstallment(context.Background(), l.LoanID, ownerID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent payment: %v", err)
		}
	}
	if l.InstallmentsRemaining != 0 {
		t.Fatalf("remaining = %d, want 0 (lost update)", l.InstallmentsRemaining)
	}
	if l.Active {
		t.Fatal("loan still active after full repayment")
	}
	if len(*payments) != n {
		t.Fatalf("payments recorded = %d, want %d", len(*payments), n)
	}
}

func TestListByUser(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		ListByUserIDFn: func(ctx context.Context, userID string) ([]loandomain.Loan, error) {
			return []loandomain.Loan{
				{LoanID: "11111111111111111111111111111111", UserID: userID, InstallmentsRemaining: 2},
				{LoanID: "22222222222222222222222222222222", UserID: userID, InstallmentsRemaining: 30},
			}, nil
		},
	}, &uowmock.UoW{}, confirmBounds(), quietLog())

	got, err := uc.ListByUser(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].InstallmentsRemaining > got[1].InstallmentsRemaining {
		t.Fatalf("repository ordering not preserved: %+v", got)
	}
}

func TestGet_OwnerOnly(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loandomain.Loan, error) {
			return &loandomain.Loan{LoanID: loanID, UserID: ownerID}, nil
		},
	}, &uowmock.UoW{}, confirmBounds(), quietLog())

	if _, err := uc.Get(context.Background(), "cccccccccccccccccccccccccccccccc", ownerID); err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if _, err := uc.Get(context.Background(), "cccccccccccccccccccccccccccccccc", strangerID); !errors.Is(err, loandomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
