package user

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrCPFTaken           = errors.New("cpf already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	UserID       string `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name         string `gorm:"size:50" json:"name"`
	CPF          string `gorm:"column:cpf;type:char(11);uniqueIndex:ux_users_cpf" json:"cpf"`
	Email        string `gorm:"size:120;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string `gorm:"size:60" json:"-"`
	// Declared monthly income; the quote flow rewrites it when a new
	// declaration differs from the stored value.
	MonthlyIncome decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_income"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
