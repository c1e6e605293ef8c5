package mapping

import (
	"testing"
	"time"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDomainAllocationRequest(t *testing.T) {
	t.Run("Absent Fields Are Zero", func(t *testing.T) {
		vendor := "V-100"
		profit := decimal.RequireFromString("40")

		req := ToDomainAllocationRequest(&api.AllocationRequest{
			TransactionId:    "tx-1",
			BeneficiaryClass: api.Vendor,
			VendorId:         &vendor,
			VendorProfit:     &profit,
		})

		assert.Equal(t, models.VENDOR, req.BeneficiaryClass)
		assert.Equal(t, "V-100", req.VendorID)
		assert.True(t, profit.Equal(req.VendorProfit))
		assert.Equal(t, "", req.CustomerID)
		assert.True(t, req.CustomerCashback.IsZero())
		assert.True(t, req.RecipientReward.IsZero())
	})
}

func TestToApiAccount(t *testing.T) {
	acct := &models.BeneficiaryAccount{
		Type:       models.CUSTOMER,
		ID:         "6001001",
		Balance:    decimal.RequireFromString("20"),
		Tier:       models.TierVIP,
		Privileges: []models.Tier{models.TierPremium},
		Version:    2,
	}

	got := ToApiAccount(acct)

	assert.Equal(t, api.Customer, got.Type)
	assert.Nil(t, got.Name)
	assert.Equal(t, "vip", *got.Tier)
	assert.Equal(t, []string{"premium"}, got.Privileges)
	assert.Nil(t, got.LastTransactionId)
}

func TestToDomainNewAccount(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tier := "gold"
	privileges := []string{"priority"}

	acct := ToDomainNewAccount(&api.NewAccount{Type: api.Vendor, Id: "V-1", Tier: &tier, Privileges: &privileges}, now)

	assert.Equal(t, models.VENDOR, acct.Type)
	assert.Equal(t, models.TierGold, acct.Tier)
	assert.Equal(t, []models.Tier{"priority"}, acct.Privileges)
	assert.True(t, acct.Balance.IsZero())
	assert.Equal(t, now, acct.CreatedAt)
}

func TestToApiPendingReward(t *testing.T) {
	t.Run("Empty Entry", func(t *testing.T) {
		got := ToApiPendingReward(&models.PendingReward{Phone: "0821234567", Amount: decimal.Zero})

		assert.Nil(t, got.FirstRewardAt)
		assert.NotNil(t, got.Transactions)
		assert.Empty(t, got.Transactions)
	})
}
