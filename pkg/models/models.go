package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BeneficiaryType identifies which class of party a balance record belongs to.
type BeneficiaryType string

const (
	CUSTOMER  BeneficiaryType = "customer"
	VENDOR    BeneficiaryType = "vendor"
	ADMIN     BeneficiaryType = "admin"
	RECIPIENT BeneficiaryType = "recipient"
)

// Valid reports whether t names a class that owns a persisted account.
func (t BeneficiaryType) Valid() bool {
	switch t {
	case CUSTOMER, VENDOR, ADMIN:
		return true
	}
	return false
}

// Tier is the privilege or tier label stored on an account.
type Tier string

const (
	TierBase    Tier = "base"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"

	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// OutcomeStatus describes what happened to one beneficiary during an allocation.
type OutcomeStatus string

const (
	CREDITED             OutcomeStatus = "credited"
	PENDING_REGISTRATION OutcomeStatus = "pending_registration"
)

// BeneficiaryAccount is the canonical balance record for a customer, vendor or admin.
type BeneficiaryAccount struct {
	Type              BeneficiaryType `json:"type"`
	ID                string          `json:"id"`
	Name              string          `json:"name,omitempty"`
	Balance           decimal.Decimal `json:"balance"`
	TotalEarned       decimal.Decimal `json:"total_earned"`
	Tier              Tier            `json:"tier,omitempty"`
	Privileges        []Tier          `json:"privileges,omitempty"`
	LastCreditAt      *time.Time      `json:"last_credit_at,omitempty"`
	LastTransactionID string          `json:"last_transaction_id,omitempty"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
}

// HasPrivilege reports whether the account carries the given flag, either as
// its tier or in its privilege list.
func (a *BeneficiaryAccount) HasPrivilege(p Tier) bool {
	if a == nil {
		return false
	}
	if a.Tier == p {
		return true
	}
	for _, flag := range a.Privileges {
		if flag == p {
			return true
		}
	}
	return false
}

// Credit adds amount to both the spendable balance and the lifetime total.
func (a *BeneficiaryAccount) Credit(amount decimal.Decimal, txID string, at time.Time) {
	a.Balance = a.Balance.Add(amount)
	a.TotalEarned = a.TotalEarned.Add(amount)
	a.LastTransactionID = txID
	a.LastCreditAt = &at
}

// PendingTransaction is one contribution to an escrowed reward.
type PendingTransaction struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// PendingReward holds money owed to a phone number that has no account yet.
// Amount always equals the sum of Transactions.
type PendingReward struct {
	Phone         string               `json:"phone"`
	Amount        decimal.Decimal      `json:"amount"`
	Transactions  []PendingTransaction `json:"transactions"`
	FirstRewardAt time.Time            `json:"first_reward_at"`
	Version       int64                `json:"version"`
}

// AllocationRequest is the reward intent of one completed transaction.
type AllocationRequest struct {
	TransactionID    string
	BeneficiaryClass BeneficiaryType
	CustomerID       string
	CustomerCashback decimal.Decimal
	VendorID         string
	VendorProfit     decimal.Decimal
	AdminID          string
	AdminBonus       decimal.Decimal
	RecipientPhone   string
	RecipientReward  decimal.Decimal
}

// Outcome records a single beneficiary update performed by an allocation.
type Outcome struct {
	Type          BeneficiaryType
	ID            string
	Status        OutcomeStatus
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
	Multiplier    decimal.Decimal
	FlatBonus     decimal.Decimal
	TransactionID string
}

// AllocationResult is the ordered summary of one allocation run.
// Atomic is false when the store could not commit all writes as one unit;
// Partial is set when a failure left some of the outcomes committed.
type AllocationResult struct {
	TransactionID string
	Outcomes      []Outcome
	Atomic        bool
	Partial       bool
}

// ClaimResult is returned by a pending reward claim.
type ClaimResult struct {
	Phone     string
	AccountID string
	Claimed   bool
	Amount    decimal.Decimal
}
