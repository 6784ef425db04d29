package auth

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	tokens "github.com/MaasMateus/desafio-serasa/internal/auth"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
	"github.com/MaasMateus/desafio-serasa/pkg/id"
)

type Usecase struct {
	users  user.Repository
	tokens *tokens.TokenManager
	log    *logrus.Logger
}

func NewUsecase(users user.Repository, tm *tokens.TokenManager, log *logrus.Logger) *Usecase {
	return &Usecase{users: users, tokens: tm, log: log}
}

type RegisterInput struct {
	Name          string
	CPF           string
	Email         string
	Password      string
	MonthlyIncome decimal.Decimal
}

type UserDTO struct {
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	CPF           string          `json:"cpf"`
	Email         string          `json:"email"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

func toDTO(u *user.User) *UserDTO {
	return &UserDTO{
		UserID:        u.UserID,
		Name:          u.Name,
		CPF:           u.CPF,
		Email:         u.Email,
		MonthlyIncome: u.MonthlyIncome,
	}
}

// Register creates an account. CPF and e-mail uniqueness are checked as
// plain lookups against the store before any insert.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	if _, err := u.users.GetByCPF(ctx, in.CPF); err == nil {
		return nil, user.ErrCPFTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := u.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		UserID:        id.NewID32(),
		Name:          in.Name,
		CPF:           in.CPF,
		Email:         in.Email,
		PasswordHash:  string(hash),
		MonthlyIncome: in.MonthlyIncome,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	u.log.WithField("user_id", usr.UserID).Info("user registered")
	return toDTO(usr), nil
}

type LoginInput struct {
	CPF      string
	Password string
}

type LoginResult struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// Login authenticates a user by CPF and password and issues a token.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	usr, err := u.users.GetByCPF(ctx, in.CPF)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := u.tokens.Generate(usr.UserID)
	if err != nil {
		return nil, err
	}

	u.log.WithField("user_id", usr.UserID).Info("user logged in")
	return &LoginResult{Token: token, User: toDTO(usr)}, nil
}
