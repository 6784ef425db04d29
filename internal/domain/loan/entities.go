package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound                = errors.New("loan not found")
	ErrForbidden               = errors.New("loan belongs to another user")
	ErrAlreadyPaid             = errors.New("loan is already paid off")
	ErrInvalidAmount           = errors.New("amount out of range")
	ErrInvalidInstallmentCount = errors.New("installment count not offered")
)

// InstallmentCounts is the full set of terms a loan can be taken over.
var InstallmentCounts = []int{12, 18, 24, 30, 36}

func ValidInstallmentCount(n int) bool {
	for _, c := range InstallmentCounts {
		if n == c {
			return true
		}
	}
	return false
}

type Loan struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	// Owning user's public id
	UserID            string          `gorm:"size:32;index:idx_loans_user" json:"user_id"`
	Principal         decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	InstallmentCount  int             `gorm:"column:installment_count" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"installment_amount"`
	// Counts down from InstallmentCount to 0, never below.
	InstallmentsRemaining int  `gorm:"column:installments_remaining" json:"installments_remaining"`
	Active                bool `gorm:"column:active" json:"active"`
	// Set at confirmation when the installment exceeds 30% of the
	// user's declared income. The loan is created regardless.
	ReviewRequired bool      `gorm:"column:review_required" json:"review_required"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
