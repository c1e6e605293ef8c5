package rewards

import (
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	one               = decimal.NewFromInt(1)
	vipMultiplier     = decimal.NewFromInt(2)
	premiumMultiplier = decimal.RequireFromString("1.5")
	adminMultiplier   = decimal.RequireFromString("2.5")
	goldRate          = decimal.RequireFromString("0.10")
	silverRate        = decimal.RequireFromString("0.05")
)

// Bonus is the tier adjustment for one credit: credited = amount*Multiplier + FlatBonus.
// Fallback is set when the account's tier was not recognised and the base rate was used.
type Bonus struct {
	Multiplier decimal.Decimal
	FlatBonus  decimal.Decimal
	Fallback   bool
}

// Apply returns the credited amount rounded to cents.
func (b Bonus) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(b.Multiplier).Add(b.FlatBonus).Round(2)
}

func baseRate() Bonus {
	return Bonus{Multiplier: one, FlatBonus: decimal.Zero}
}

// ResolveMultiplier returns the bonus for crediting amount to account.
// Customers are multiplied, vendors get an additive bonus on their profit and
// admins always get the fixed multiplier plus the supplied adminBonus.
// Unknown tiers never fail: they resolve to the base rate with Fallback set.
func ResolveMultiplier(kind models.BeneficiaryType, account *models.BeneficiaryAccount, amount, adminBonus decimal.Decimal) Bonus {
	switch kind {
	case models.CUSTOMER:
		return customerBonus(account)
	case models.VENDOR:
		return vendorBonus(account, amount)
	case models.ADMIN:
		return Bonus{Multiplier: adminMultiplier, FlatBonus: adminBonus}
	default:
		return baseRate()
	}
}

func customerBonus(account *models.BeneficiaryAccount) Bonus {
	switch {
	case account.HasPrivilege(models.TierVIP):
		return Bonus{Multiplier: vipMultiplier, FlatBonus: decimal.Zero}
	case account.HasPrivilege(models.TierPremium):
		return Bonus{Multiplier: premiumMultiplier, FlatBonus: decimal.Zero}
	}

	b := baseRate()
	if account != nil {
		switch account.Tier {
		case "", models.TierBase:
		default:
			b.Fallback = true
		}
	}
	return b
}

func vendorBonus(account *models.BeneficiaryAccount, profit decimal.Decimal) Bonus {
	b := baseRate()
	if account == nil {
		return b
	}
	switch account.Tier {
	case models.TierGold:
		b.FlatBonus = profit.Mul(goldRate)
	case models.TierSilver:
		b.FlatBonus = profit.Mul(silverRate)
	case models.TierBronze, "":
	default:
		// Unrecognised vendor tier: plain profit.
		b.Fallback = true
	}
	return b
}
