package dynamodb

import (
	"fmt"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal strings so no precision is lost to float conversion.

type accountItem struct {
	AccountKey        string     `dynamodbav:"account_key"`
	Type              string     `dynamodbav:"type"`
	ID                string     `dynamodbav:"id"`
	Name              string     `dynamodbav:"name,omitempty"`
	Balance           string     `dynamodbav:"balance"`
	TotalEarned       string     `dynamodbav:"total_earned"`
	Tier              string     `dynamodbav:"tier,omitempty"`
	Privileges        []string   `dynamodbav:"privileges,omitempty"`
	LastCreditAt      *time.Time `dynamodbav:"last_credit_at,omitempty"`
	LastTransactionID string     `dynamodbav:"last_transaction_id,omitempty"`
	Version           int64      `dynamodbav:"version"`
	CreatedAt         time.Time  `dynamodbav:"created_at"`
}

type pendingTxItem struct {
	TransactionID string    `dynamodbav:"transaction_id"`
	Amount        string    `dynamodbav:"amount"`
	Timestamp     time.Time `dynamodbav:"timestamp"`
}

type pendingItem struct {
	Phone         string          `dynamodbav:"phone"`
	Amount        string          `dynamodbav:"amount"`
	Transactions  []pendingTxItem `dynamodbav:"transactions"`
	FirstRewardAt time.Time       `dynamodbav:"first_reward_at"`
	Version       int64           `dynamodbav:"version"`
}

type processedItem struct {
	TransactionID string    `dynamodbav:"transaction_id"`
	ProcessedAt   time.Time `dynamodbav:"processed_at"`
}

func accountKey(kind models.BeneficiaryType, id string) string {
	return string(kind) + "#" + id
}

func toAccountItem(a *models.BeneficiaryAccount) accountItem {
	item := accountItem{
		AccountKey:        accountKey(a.Type, a.ID),
		Type:              string(a.Type),
		ID:                a.ID,
		Name:              a.Name,
		Balance:           a.Balance.String(),
		TotalEarned:       a.TotalEarned.String(),
		Tier:              string(a.Tier),
		LastCreditAt:      a.LastCreditAt,
		LastTransactionID: a.LastTransactionID,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
	}
	for _, p := range a.Privileges {
		item.Privileges = append(item.Privileges, string(p))
	}
	return item
}

func (item accountItem) toModel() (*models.BeneficiaryAccount, error) {
	balance, err := decimal.NewFromString(item.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance for %s: %w", item.AccountKey, err)
	}
	total, err := decimal.NewFromString(item.TotalEarned)
	if err != nil {
		return nil, fmt.Errorf("invalid total_earned for %s: %w", item.AccountKey, err)
	}
	acct := &models.BeneficiaryAccount{
		Type:              models.BeneficiaryType(item.Type),
		ID:                item.ID,
		Name:              item.Name,
		Balance:           balance,
		TotalEarned:       total,
		Tier:              models.Tier(item.Tier),
		LastCreditAt:      item.LastCreditAt,
		LastTransactionID: item.LastTransactionID,
		Version:           item.Version,
		CreatedAt:         item.CreatedAt,
	}
	for _, p := range item.Privileges {
		acct.Privileges = append(acct.Privileges, models.Tier(p))
	}
	return acct, nil
}

func toPendingItem(p *models.PendingReward) pendingItem {
	item := pendingItem{
		Phone:         p.Phone,
		Amount:        p.Amount.String(),
		Transactions:  make([]pendingTxItem, 0, len(p.Transactions)),
		FirstRewardAt: p.FirstRewardAt,
		Version:       p.Version,
	}
	for _, tx := range p.Transactions {
		item.Transactions = append(item.Transactions, pendingTxItem{
			TransactionID: tx.TransactionID,
			Amount:        tx.Amount.String(),
			Timestamp:     tx.Timestamp,
		})
	}
	return item
}

func (item pendingItem) toModel() (*models.PendingReward, error) {
	amount, err := decimal.NewFromString(item.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid pending amount for %s: %w", item.Phone, err)
	}
	reward := &models.PendingReward{
		Phone:         item.Phone,
		Amount:        amount,
		Transactions:  make([]models.PendingTransaction, 0, len(item.Transactions)),
		FirstRewardAt: item.FirstRewardAt,
		Version:       item.Version,
	}
	for _, tx := range item.Transactions {
		txAmount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for pending transaction %s: %w", tx.TransactionID, err)
		}
		reward.Transactions = append(reward.Transactions, models.PendingTransaction{
			TransactionID: tx.TransactionID,
			Amount:        txAmount,
			Timestamp:     tx.Timestamp,
		})
	}
	return reward, nil
}
