package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// statusFor maps domain errors onto HTTP codes. Everything in the domain
// taxonomy is user-recoverable; anything else is an infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loandomain.ErrInvalidAmount),
		errors.Is(err, loandomain.ErrInvalidInstallmentCount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loandomain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, loandomain.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, user.ErrCPFTaken), errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, loandomain.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
