package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("payment not found")

// Payment records one settled installment of a loan.
type Payment struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	PaymentID string `gorm:"column:payment_id;type:char(32);not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	// FK to loans.id (numeric)
	LoanID uint64          `gorm:"column:loan_id;not null;index" json:"-"`
	Amount decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	// 1-based position in the schedule: first installment paid is 1.
	Sequence  int       `gorm:"column:sequence;not null" json:"sequence"`
	PaidAt    time.Time `gorm:"column:paid_at;not null" json:"paid_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Payment) TableName() string { return "payments" }
