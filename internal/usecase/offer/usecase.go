package offer

import (
	"context"

	"github.com/shopspring/decimal"

	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	"github.com/MaasMateus/desafio-serasa/internal/domain/user"
)

// Offer is a suggested loan shown to a user based on income. Ephemeral:
// produced fresh per request, never persisted.
type Offer struct {
	Title            string          `json:"title"`
	Amount           decimal.Decimal `json:"amount"`
	InstallmentCount int             `json:"installment_count"`
}

// The fixed catalog. The consolidation offer is unconditional; each other
// entry is gated by its own affordability threshold, all evaluated
// independently, emitted in this order.
var (
	amt3000  = decimal.NewFromInt(3000)
	amt7500  = decimal.NewFromInt(7500)
	amt10000 = decimal.NewFromInt(10000)
	amt50000 = decimal.NewFromInt(50000)

	thresholdVehicle    = decimal.NewFromInt(1600)
	thresholdRenovation = decimal.NewFromInt(385)
	thresholdTravel     = decimal.NewFromInt(480)
	thresholdMedical    = decimal.NewFromInt(480)
)

// Generate derives the offer list from a declared monthly income. Pure and
// deterministic; callers are responsible for rejecting negative income.
func Generate(monthlyIncome decimal.Decimal) []Offer {
	affordable := loandomain.AffordableInstallment(monthlyIncome)

	offers := []Offer{
		{Title: "debt consolidation", Amount: amt3000, InstallmentCount: 12},
	}
	if affordable.GreaterThan(thresholdVehicle) {
		offers = append(offers, Offer{Title: "vehicle", Amount: amt50000, InstallmentCount: 36})
	}
	if affordable.GreaterThan(thresholdRenovation) {
		offers = append(offers, Offer{Title: "home renovation", Amount: amt10000, InstallmentCount: 30})
	}
	if affordable.GreaterThan(thresholdTravel) {
		offers = append(offers, Offer{Title: "travel", Amount: amt7500, InstallmentCount: 18})
	}
	if affordable.GreaterThan(thresholdMedical) {
		offers = append(offers, Offer{Title: "medical", Amount: amt10000, InstallmentCount: 24})
	}
	return offers
}

type Usecase struct{ users user.Repository }

func NewUsecase(users user.Repository) *Usecase { return &Usecase{users: users} }

// GenerateForUser reads the user's income on file and derives offers from it.
func (u *Usecase) GenerateForUser(ctx context.Context, userID string) ([]Offer, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Generate(usr.MonthlyIncome), nil
}
