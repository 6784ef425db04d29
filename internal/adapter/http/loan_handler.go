package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/MaasMateus/desafio-serasa/internal/adapter/middleware"
	loanuc "github.com/MaasMateus/desafio-serasa/internal/usecase/loan"
	"github.com/MaasMateus/desafio-serasa/internal/usecase/quote"
)

type LoanHandler struct {
	quotes *quote.Usecase
	loans  *loanuc.Usecase
}

func NewLoanHandler(quotes *quote.Usecase, loans *loanuc.Usecase) *LoanHandler {
	return &LoanHandler{quotes: quotes, loans: loans}
}

type quoteReq struct {
	// Money fields arrive as free text (the original served an HTML form);
	// they are validated here and parsed into decimals.
	Principal        string `json:"principal"         validate:"required,money"`
	InstallmentCount int    `json:"installment_count" validate:"required"`
	MonthlyIncome    string `json:"monthly_income"    validate:"omitempty,money"`
}

// Quote validates the requested terms against the request-stage bounds
// and returns the computed repayment figures for review.
func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid principal"})
	}
	in := quote.Input{
		Principal:        principal,
		InstallmentCount: req.InstallmentCount,
	}
	if req.MonthlyIncome != "" {
		income, err := decimal.NewFromString(req.MonthlyIncome)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid monthly_income"})
		}
		in.MonthlyIncome = &income
	}

	dto, err := h.quotes.Compute(c.Request().Context(), middleware.UserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type confirmReq struct {
	Principal        string `json:"principal"         validate:"required,money"`
	InstallmentCount int    `json:"installment_count" validate:"required"`
}

// Confirm creates the loan under the confirmation-stage bounds.
func (h *LoanHandler) Confirm(c echo.Context) error {
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid principal"})
	}

	dto, err := h.loans.Confirm(c.Request().Context(), middleware.UserID(c), loanuc.ConfirmInput{
		Principal:        principal,
		InstallmentCount: req.InstallmentCount,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// PayInstallment settles one installment of the caller's own loan.
func (h *LoanHandler) PayInstallment(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}

	dto, err := h.loans.PayInstallment(c.Request().Context(), loanID, middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	dtos, err := h.loans.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	dto, err := h.loans.Get(c.Request().Context(), loanID, middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
