package rewards

import (
	"sort"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/shopspring/decimal"
)

type accountKey struct {
	kind models.BeneficiaryType
	id   string
}

// accountStep is the pending write for one account. An account credited twice
// in the same allocation (recipient phone equal to the paying customer's card)
// is written once with both credits applied.
type accountStep struct {
	account  *models.BeneficiaryAccount
	expected int64
	outcomes []int
}

type pendingStep struct {
	reward   *models.PendingReward
	expected int64
	outcome  int
}

// plan is the set of writes computed from one read snapshot.
type plan struct {
	txID     string
	outcomes []models.Outcome
	steps    []*accountStep
	byKey    map[accountKey]*accountStep
	pending  *pendingStep
}

func newPlan(txID string) *plan {
	return &plan{txID: txID, byKey: make(map[accountKey]*accountStep)}
}

// lookup returns the in-plan copy of an account if it has already been credited.
func (p *plan) lookup(kind models.BeneficiaryType, id string) *models.BeneficiaryAccount {
	if step, ok := p.byKey[accountKey{kind, id}]; ok {
		return step.account
	}
	return nil
}

func (p *plan) credit(kind models.BeneficiaryType, outcomeType models.BeneficiaryType, account *models.BeneficiaryAccount, bonus Bonus, amount decimal.Decimal, now time.Time) models.Outcome {
	key := accountKey{kind, account.ID}
	step, ok := p.byKey[key]
	if !ok {
		step = &accountStep{account: account, expected: account.Version}
		p.byKey[key] = step
		p.steps = append(p.steps, step)
	}
	step.account.Credit(amount, p.txID, now)

	outcome := models.Outcome{
		Type:          outcomeType,
		ID:            account.ID,
		Status:        models.CREDITED,
		Amount:        amount,
		NewBalance:    step.account.Balance,
		Multiplier:    bonus.Multiplier,
		FlatBonus:     bonus.FlatBonus,
		TransactionID: p.txID,
	}
	step.outcomes = append(step.outcomes, len(p.outcomes))
	p.outcomes = append(p.outcomes, outcome)
	return outcome
}

func (p *plan) escrow(existing *models.PendingReward, phone string, amount decimal.Decimal, now time.Time) models.Outcome {
	reward, expected := appendPending(existing, phone, amount, p.txID, now)
	outcome := models.Outcome{
		Type:          models.RECIPIENT,
		ID:            phone,
		Status:        models.PENDING_REGISTRATION,
		Amount:        amount,
		NewBalance:    reward.Amount,
		Multiplier:    one,
		FlatBonus:     decimal.Zero,
		TransactionID: p.txID,
	}
	p.pending = &pendingStep{reward: reward, expected: expected, outcome: len(p.outcomes)}
	p.outcomes = append(p.outcomes, outcome)
	return outcome
}

func (p *plan) batch(record bool) *storage.Batch {
	b := &storage.Batch{TransactionID: p.txID, RecordTransaction: record}
	for _, step := range p.steps {
		b.Accounts = append(b.Accounts, storage.AccountWrite{Account: *step.account, ExpectedVersion: step.expected})
	}
	if p.pending != nil {
		b.Pending = append(b.Pending, storage.PendingWrite{Reward: *p.pending.reward, ExpectedVersion: p.pending.expected})
	}
	return b
}

// committed returns the outcomes of the given steps in their original order.
func (p *plan) committed(indices []int) []models.Outcome {
	sort.Ints(indices)
	out := make([]models.Outcome, 0, len(indices))
	for _, i := range indices {
		out = append(out, p.outcomes[i])
	}
	return out
}

// appendPending adds one contribution to an escrow entry, creating it when
// existing is nil. It returns the updated copy and the version to write against.
func appendPending(existing *models.PendingReward, phone string, amount decimal.Decimal, txID string, now time.Time) (*models.PendingReward, int64) {
	reward := &models.PendingReward{Phone: phone, Amount: decimal.Zero, FirstRewardAt: now}
	var expected int64
	if existing != nil {
		copied := *existing
		copied.Transactions = append([]models.PendingTransaction(nil), existing.Transactions...)
		reward = &copied
		expected = existing.Version
	}
	reward.Amount = reward.Amount.Add(amount)
	reward.Transactions = append(reward.Transactions, models.PendingTransaction{
		TransactionID: txID,
		Amount:        amount,
		Timestamp:     now,
	})
	return reward, expected
}
