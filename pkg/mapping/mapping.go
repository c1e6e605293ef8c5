package mapping

import (
	"time"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
)

// ToDomainAllocationRequest converts an API AllocationRequest to the domain request.
// Absent amounts become zero.
func ToDomainAllocationRequest(req *api.AllocationRequest) *models.AllocationRequest {
	return &models.AllocationRequest{
		TransactionID:    req.TransactionId,
		BeneficiaryClass: models.BeneficiaryType(req.BeneficiaryClass),
		CustomerID:       deref(req.CustomerId),
		CustomerCashback: amount(req.CustomerCashback),
		VendorID:         deref(req.VendorId),
		VendorProfit:     amount(req.VendorProfit),
		AdminID:          deref(req.AdminId),
		AdminBonus:       amount(req.AdminBonus),
		RecipientPhone:   deref(req.RecipientPhone),
		RecipientReward:  amount(req.RecipientReward),
	}
}

// ToApiAllocationResult converts a domain AllocationResult to the API model.
func ToApiAllocationResult(result *models.AllocationResult) *api.AllocationResult {
	outcomes := make([]api.Outcome, len(result.Outcomes))
	for i, o := range result.Outcomes {
		outcomes[i] = api.Outcome{
			Type:          api.BeneficiaryClass(o.Type),
			Id:            o.ID,
			Status:        api.OutcomeStatus(o.Status),
			Amount:        o.Amount,
			NewBalance:    o.NewBalance,
			Multiplier:    o.Multiplier,
			FlatBonus:     o.FlatBonus,
			TransactionId: o.TransactionID,
		}
	}
	return &api.AllocationResult{
		TransactionId: result.TransactionID,
		Outcomes:      outcomes,
		Atomic:        result.Atomic,
		Partial:       result.Partial,
	}
}

// ToApiAccount converts a domain BeneficiaryAccount to the API model.
func ToApiAccount(acct *models.BeneficiaryAccount) *api.Account {
	privileges := make([]string, len(acct.Privileges))
	for i, p := range acct.Privileges {
		privileges[i] = string(p)
	}
	return &api.Account{
		Type:              api.BeneficiaryClass(acct.Type),
		Id:                acct.ID,
		Name:              optional(acct.Name),
		Balance:           acct.Balance,
		TotalEarned:       acct.TotalEarned,
		Tier:              optional(string(acct.Tier)),
		Privileges:        privileges,
		LastCreditAt:      acct.LastCreditAt,
		LastTransactionId: optional(acct.LastTransactionID),
		Version:           acct.Version,
		CreatedAt:         acct.CreatedAt,
	}
}

// ToDomainNewAccount converts an API NewAccount to a zero-balance domain account.
func ToDomainNewAccount(newAccount *api.NewAccount, now time.Time) *models.BeneficiaryAccount {
	acct := &models.BeneficiaryAccount{
		Type:        models.BeneficiaryType(newAccount.Type),
		ID:          newAccount.Id,
		Name:        deref(newAccount.Name),
		Balance:     decimal.Zero,
		TotalEarned: decimal.Zero,
		Tier:        models.Tier(deref(newAccount.Tier)),
		CreatedAt:   now,
	}
	if newAccount.Privileges != nil {
		for _, p := range *newAccount.Privileges {
			acct.Privileges = append(acct.Privileges, models.Tier(p))
		}
	}
	return acct
}

// ToApiPendingReward converts a domain PendingReward to the API model.
func ToApiPendingReward(reward *models.PendingReward) *api.PendingReward {
	txs := make([]api.PendingTransaction, len(reward.Transactions))
	for i, tx := range reward.Transactions {
		txs[i] = api.PendingTransaction{
			TransactionId: tx.TransactionID,
			Amount:        tx.Amount,
			Timestamp:     tx.Timestamp,
		}
	}
	out := &api.PendingReward{
		Phone:        reward.Phone,
		Amount:       reward.Amount,
		Transactions: txs,
	}
	if !reward.FirstRewardAt.IsZero() {
		first := reward.FirstRewardAt
		out.FirstRewardAt = &first
	}
	return out
}

// ToApiClaimResult converts a domain ClaimResult to the API model.
func ToApiClaimResult(result *models.ClaimResult) *api.ClaimResult {
	return &api.ClaimResult{
		Phone:     result.Phone,
		AccountId: result.AccountID,
		Claimed:   result.Claimed,
		Amount:    result.Amount,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func amount(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
