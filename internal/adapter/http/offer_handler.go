package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/MaasMateus/desafio-serasa/internal/adapter/middleware"
	"github.com/MaasMateus/desafio-serasa/internal/usecase/offer"
)

type OfferHandler struct{ uc *offer.Usecase }

func NewOfferHandler(uc *offer.Usecase) *OfferHandler { return &OfferHandler{uc: uc} }

// ListOffers derives offers from the income on file, or from the
// ?income= override when the caller supplies one.
func (h *OfferHandler) ListOffers(c echo.Context) error {
	if raw := c.QueryParam("income"); raw != "" {
		income, err := decimal.NewFromString(raw)
		if err != nil || income.IsNegative() {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid income"})
		}
		return c.JSON(http.StatusOK, offer.Generate(income))
	}

	offers, err := h.uc.GenerateForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, offers)
}
