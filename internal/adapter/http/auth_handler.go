package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/MaasMateus/desafio-serasa/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type registerReq struct {
	Name            string `json:"name"             validate:"required,min=2,max=50"`
	CPF             string `json:"cpf"              validate:"required,cpf11"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	// Free text from the form; validated and parsed into a decimal here.
	MonthlyIncome string `json:"monthly_income"   validate:"required,money"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	income, err := decimal.NewFromString(req.MonthlyIncome)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid monthly_income"})
	}

	dto, err := h.uc.Register(c.Request().Context(), auth.RegisterInput{
		Name:          req.Name,
		CPF:           req.CPF,
		Email:         req.Email,
		Password:      req.Password,
		MonthlyIncome: income,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type loginReq struct {
	CPF      string `json:"cpf"      validate:"required,cpf11"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Login(c.Request().Context(), auth.LoginInput{CPF: req.CPF, Password: req.Password})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
