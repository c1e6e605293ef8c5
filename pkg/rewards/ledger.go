package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ledger manages rewards escrowed against phone numbers that have no account.
type Ledger struct {
	store  storage.RewardStore
	atomic storage.AtomicWriter
	opts   Options
}

// NewLedger creates a Ledger over store.
func NewLedger(store storage.RewardStore, opts Options) *Ledger {
	l := &Ledger{store: store, opts: opts.withDefaults()}
	if w, ok := store.(storage.AtomicWriter); ok {
		l.atomic = w
	}
	return l
}

// ClaimTransactionID is the synthetic transaction id used to credit a claimed escrow.
func ClaimTransactionID(reward *models.PendingReward) string {
	return fmt.Sprintf("claim-%s-%d", reward.Phone, reward.FirstRewardAt.UnixNano())
}

// AddPending adds amount to the escrow for phone and returns the new total.
// Transaction ids are not deduplicated here.
func (l *Ledger) AddPending(ctx context.Context, phone string, amount decimal.Decimal, txID string) (decimal.Decimal, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if !wholeCents(amount) {
		return decimal.Zero, fmt.Errorf("%w: amount must be a whole number of cents", ErrInvalidRequest)
	}

	for attempt := 0; ; attempt++ {
		existing, err := l.store.GetPending(ctx, phone)
		if err != nil && !errors.Is(err, storage.ErrPendingNotFound) {
			return decimal.Zero, fmt.Errorf("failed to read pending reward: %w", err)
		}

		reward, expected := appendPending(existing, phone, amount, txID, l.opts.Now().UTC())
		err = l.store.PutPending(ctx, reward, expected)
		if err == nil {
			l.opts.Metrics.Escrowed(amount)
			return reward.Amount, nil
		}
		if errors.Is(err, storage.ErrVersionConflict) && attempt < l.opts.MaxConflictRetries {
			continue
		}
		return decimal.Zero, fmt.Errorf("failed to write pending reward: %w", err)
	}
}

// GetPending returns the escrowed amount for phone, zero when there is none.
func (l *Ledger) GetPending(ctx context.Context, phone string) (decimal.Decimal, error) {
	reward, err := l.History(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	return reward.Amount, nil
}

// History returns the escrow entry for phone. A phone with nothing escrowed
// yields an empty entry rather than an error.
func (l *Ledger) History(ctx context.Context, phone string) (*models.PendingReward, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	reward, err := l.store.GetPending(ctx, phone)
	if errors.Is(err, storage.ErrPendingNotFound) {
		return &models.PendingReward{Phone: phone, Amount: decimal.Zero, Transactions: []models.PendingTransaction{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending reward: %w", err)
	}
	return reward, nil
}

// ClaimPending moves the full escrow for phone into the customer account
// accountID and removes the entry. The entry is only removed once the credit
// is committed, and a retried claim never pays twice.
func (l *Ledger) ClaimPending(ctx context.Context, phone, accountID string) (*models.ClaimResult, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidRequest)
	}

	ctx, span := tracer.Start(ctx, "rewards.ClaimPending", trace.WithAttributes(
		attribute.String("account.id", accountID),
	))
	defer span.End()

	result, err := l.claim(ctx, phone, accountID)
	switch {
	case err != nil:
		l.opts.Metrics.Claim("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.opts.Logger.ErrorContext(ctx, "pending claim failed", "phone", phone, "account_id", accountID, "error", err)
	case result.Claimed:
		l.opts.Metrics.Claim("claimed")
		l.opts.Metrics.Credited(string(models.CUSTOMER), result.Amount)
		l.opts.Logger.InfoContext(ctx, "pending reward claimed", "phone", phone, "account_id", accountID, "amount", result.Amount.String())
	default:
		l.opts.Metrics.Claim("empty")
	}
	return result, err
}

func (l *Ledger) claim(ctx context.Context, phone, accountID string) (*models.ClaimResult, error) {
	empty := &models.ClaimResult{Phone: phone, AccountID: accountID, Amount: decimal.Zero}

	for attempt := 0; ; attempt++ {
		reward, err := l.store.GetPending(ctx, phone)
		if errors.Is(err, storage.ErrPendingNotFound) {
			return empty, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read pending reward: %w", err)
		}
		if !reward.Amount.IsPositive() {
			return empty, nil
		}

		account, err := l.store.GetAccount(ctx, models.CUSTOMER, accountID)
		if err != nil {
			if errors.Is(err, storage.ErrAccountNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to read customer account: %w", err)
		}

		if l.atomic != nil {
			err = l.commitClaim(ctx, reward, account)
		} else {
			err = l.applyClaim(ctx, reward, account)
		}
		if err == nil {
			return &models.ClaimResult{Phone: phone, AccountID: accountID, Claimed: true, Amount: reward.Amount}, nil
		}
		if errors.Is(err, storage.ErrVersionConflict) && attempt < l.opts.MaxConflictRetries {
			continue
		}
		return nil, fmt.Errorf("failed to claim pending reward: %w", err)
	}
}

// commitClaim credits the account and deletes the escrow in one batch.
func (l *Ledger) commitClaim(ctx context.Context, reward *models.PendingReward, account *models.BeneficiaryAccount) error {
	claimID := ClaimTransactionID(reward)
	expected := account.Version
	account.Credit(reward.Amount, claimID, l.opts.Now().UTC())

	return l.atomic.CommitBatch(ctx, &storage.Batch{
		TransactionID: claimID,
		Accounts:      []storage.AccountWrite{{Account: *account, ExpectedVersion: expected}},
		Deletes:       []storage.PendingDelete{{Phone: reward.Phone, ExpectedVersion: reward.Version}},
	})
}

// applyClaim credits first and deletes second. If a previous attempt already
// credited this escrow the credit is skipped and only the delete is retried.
func (l *Ledger) applyClaim(ctx context.Context, reward *models.PendingReward, account *models.BeneficiaryAccount) error {
	claimID := ClaimTransactionID(reward)
	if account.LastTransactionID != claimID {
		expected := account.Version
		account.Credit(reward.Amount, claimID, l.opts.Now().UTC())
		if err := l.store.PutAccount(ctx, account, expected); err != nil {
			return err
		}
	}
	return l.store.DeletePending(ctx, reward.Phone, reward.Version)
}
