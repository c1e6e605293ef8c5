package rewards

import (
	"fmt"
	"strings"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
)

// ValidateRequest checks req and returns a copy with the recipient phone normalised.
func ValidateRequest(req *models.AllocationRequest) (*models.AllocationRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	out := *req
	out.TransactionID = strings.TrimSpace(out.TransactionID)
	if out.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidRequest)
	}
	if !out.BeneficiaryClass.Valid() {
		return nil, fmt.Errorf("%w: unknown beneficiary class %q", ErrInvalidRequest, out.BeneficiaryClass)
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"customer cashback", out.CustomerCashback},
		{"vendor profit", out.VendorProfit},
		{"admin bonus", out.AdminBonus},
		{"recipient reward", out.RecipientReward},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidRequest, a.name)
		}
		if !wholeCents(a.value) {
			return nil, fmt.Errorf("%w: %s must be a whole number of cents", ErrInvalidRequest, a.name)
		}
	}

	if out.RecipientReward.IsPositive() {
		phone, err := NormalizePhone(out.RecipientPhone)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		out.RecipientPhone = phone
	}
	return &out, nil
}

func wholeCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}
