package rewards

import (
	"testing"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func TestResolveMultiplierCustomer(t *testing.T) {
	tests := []struct {
		name     string
		account  *models.BeneficiaryAccount
		credited string
		fallback bool
	}{
		{"VIP", &models.BeneficiaryAccount{Tier: models.TierVIP}, "20", false},
		{"VIP Privilege Flag", &models.BeneficiaryAccount{Privileges: []models.Tier{models.TierPremium, models.TierVIP}}, "20", false},
		{"Premium", &models.BeneficiaryAccount{Tier: models.TierPremium}, "15", false},
		{"Base", &models.BeneficiaryAccount{Tier: models.TierBase}, "10", false},
		{"Missing Tier", &models.BeneficiaryAccount{}, "10", false},
		{"Unknown Tier", &models.BeneficiaryAccount{Tier: "platinum"}, "10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bonus := ResolveMultiplier(models.CUSTOMER, tt.account, dec("10"), decimal.Zero)

			assertAmount(t, tt.credited, bonus.Apply(dec("10")))
			assertAmount(t, "0", bonus.FlatBonus)
			assert.Equal(t, tt.fallback, bonus.Fallback)
		})
	}
}

func TestResolveMultiplierVendor(t *testing.T) {
	tests := []struct {
		name     string
		account  *models.BeneficiaryAccount
		credited string
		fallback bool
	}{
		{"Gold", &models.BeneficiaryAccount{Tier: models.TierGold}, "110", false},
		{"Silver", &models.BeneficiaryAccount{Tier: models.TierSilver}, "105", false},
		{"Bronze", &models.BeneficiaryAccount{Tier: models.TierBronze}, "100", false},
		{"Missing Tier", &models.BeneficiaryAccount{}, "100", false},
		{"Customer Tier On Vendor", &models.BeneficiaryAccount{Tier: models.TierVIP}, "100", true},
		{"Nil Account", nil, "100", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bonus := ResolveMultiplier(models.VENDOR, tt.account, dec("100"), decimal.Zero)

			assertAmount(t, "1", bonus.Multiplier)
			assertAmount(t, tt.credited, bonus.Apply(dec("100")))
			assert.Equal(t, tt.fallback, bonus.Fallback)
		})
	}
}

func TestResolveMultiplierAdmin(t *testing.T) {
	t.Run("Tier Ignored", func(t *testing.T) {
		for _, tier := range []models.Tier{"", models.TierGold, models.TierVIP, "legacy"} {
			bonus := ResolveMultiplier(models.ADMIN, &models.BeneficiaryAccount{Tier: tier}, dec("10"), dec("5"))

			assertAmount(t, "2.5", bonus.Multiplier)
			assertAmount(t, "5", bonus.FlatBonus)
			assertAmount(t, "30", bonus.Apply(dec("10")))
			assert.False(t, bonus.Fallback)
		}
	})
}

func TestBonusApplyRoundsToCents(t *testing.T) {
	bonus := ResolveMultiplier(models.CUSTOMER, &models.BeneficiaryAccount{Tier: models.TierPremium}, dec("0.33"), decimal.Zero)

	assertAmount(t, "0.5", bonus.Apply(dec("0.33")))
}
