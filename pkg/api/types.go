// Package api holds the HTTP wire types and the router for the rewards service.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// BeneficiaryClass defines model for BeneficiaryClass.
type BeneficiaryClass string

// Defines values for BeneficiaryClass.
const (
	Admin     BeneficiaryClass = "admin"
	Customer  BeneficiaryClass = "customer"
	Recipient BeneficiaryClass = "recipient"
	Vendor    BeneficiaryClass = "vendor"
)

// OutcomeStatus defines model for OutcomeStatus.
type OutcomeStatus string

// Defines values for OutcomeStatus.
const (
	Credited            OutcomeStatus = "credited"
	PendingRegistration OutcomeStatus = "pending_registration"
)

// AllocationRequest is the reward intent of one completed transaction.
type AllocationRequest struct {
	TransactionId    string           `json:"transaction_id"`
	BeneficiaryClass BeneficiaryClass `json:"beneficiary_class"`
	CustomerId       *string          `json:"customer_id,omitempty"`
	CustomerCashback *decimal.Decimal `json:"customer_cashback,omitempty"`
	VendorId         *string          `json:"vendor_id,omitempty"`
	VendorProfit     *decimal.Decimal `json:"vendor_profit,omitempty"`
	AdminId          *string          `json:"admin_id,omitempty"`
	AdminBonus       *decimal.Decimal `json:"admin_bonus,omitempty"`
	RecipientPhone   *string          `json:"recipient_phone,omitempty"`
	RecipientReward  *decimal.Decimal `json:"recipient_reward,omitempty"`
}

// Outcome defines model for Outcome.
type Outcome struct {
	Type          BeneficiaryClass `json:"type"`
	Id            string           `json:"id"`
	Status        OutcomeStatus    `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	NewBalance    decimal.Decimal  `json:"new_balance"`
	Multiplier    decimal.Decimal  `json:"multiplier"`
	FlatBonus     decimal.Decimal  `json:"flat_bonus"`
	TransactionId string           `json:"transaction_id"`
}

// AllocationResult defines model for AllocationResult.
type AllocationResult struct {
	TransactionId string    `json:"transaction_id"`
	Outcomes      []Outcome `json:"outcomes"`
	Atomic        bool      `json:"atomic"`
	Partial       bool      `json:"partial"`
}

// AllocationError is returned with a 5xx when an allocation failed, carrying
// whatever was committed before the failure.
type AllocationError struct {
	Error  string            `json:"error"`
	Result *AllocationResult `json:"result,omitempty"`
}

// QueuedAllocation is the 202 response of an enqueued allocation.
type QueuedAllocation struct {
	TransactionId string `json:"transaction_id"`
	MessageId     string `json:"message_id"`
}

// NewAccount defines model for NewAccount.
type NewAccount struct {
	Type       BeneficiaryClass `json:"type"`
	Id         string           `json:"id"`
	Name       *string          `json:"name,omitempty"`
	Tier       *string          `json:"tier,omitempty"`
	Privileges *[]string        `json:"privileges,omitempty"`
}

// Account defines model for Account.
type Account struct {
	Type              BeneficiaryClass `json:"type"`
	Id                string           `json:"id"`
	Name              *string          `json:"name,omitempty"`
	Balance           decimal.Decimal  `json:"balance"`
	TotalEarned       decimal.Decimal  `json:"total_earned"`
	Tier              *string          `json:"tier,omitempty"`
	Privileges        []string         `json:"privileges"`
	LastCreditAt      *time.Time       `json:"last_credit_at,omitempty"`
	LastTransactionId *string          `json:"last_transaction_id,omitempty"`
	Version           int64            `json:"version"`
	CreatedAt         time.Time        `json:"created_at"`
}

// PendingTransaction defines model for PendingTransaction.
type PendingTransaction struct {
	TransactionId string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// PendingReward defines model for PendingReward.
type PendingReward struct {
	Phone         string               `json:"phone"`
	Amount        decimal.Decimal      `json:"amount"`
	Transactions  []PendingTransaction `json:"transactions"`
	FirstRewardAt *time.Time           `json:"first_reward_at,omitempty"`
}

// ClaimRequest defines model for ClaimRequest.
type ClaimRequest struct {
	AccountId string `json:"account_id"`
}

// ClaimResult defines model for ClaimResult.
type ClaimResult struct {
	Phone     string          `json:"phone"`
	AccountId string          `json:"account_id"`
	Claimed   bool            `json:"claimed"`
	Amount    decimal.Decimal `json:"amount"`
}
