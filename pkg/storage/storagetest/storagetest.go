// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the storage contracts. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("Pending", func(t *testing.T) { testPending(t, newStore(t)) })
	t.Run("RecordTransaction", func(t *testing.T) { testRecordTransaction(t, newStore(t)) })
	t.Run("CommitBatch", func(t *testing.T) { testCommitBatch(t, newStore(t)) })
	t.Run("CommitBatch Rolls Back", func(t *testing.T) { testCommitBatchRollback(t, newStore(t)) })
}

func account(kind models.BeneficiaryType, id string) *models.BeneficiaryAccount {
	return &models.BeneficiaryAccount{
		Type:        kind,
		ID:          id,
		Balance:     decimal.RequireFromString("5"),
		TotalEarned: decimal.RequireFromString("5"),
		Tier:        models.TierSilver,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func pending(phone, amount string) *models.PendingReward {
	at := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	return &models.PendingReward{
		Phone:         phone,
		Amount:        decimal.RequireFromString(amount),
		Transactions:  []models.PendingTransaction{{TransactionID: "tx-" + phone, Amount: decimal.RequireFromString(amount), Timestamp: at}},
		FirstRewardAt: at,
	}
}

func testAccounts(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	_, err := store.GetAccount(ctx, models.VENDOR, "V-1")
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)

	created, err := store.CreateAccount(ctx, account(models.VENDOR, "V-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	_, err = store.CreateAccount(ctx, account(models.VENDOR, "V-1"))
	assert.ErrorIs(t, err, storage.ErrAccountExists)

	// Same identifier under another type is a separate record.
	_, err = store.CreateAccount(ctx, account(models.CUSTOMER, "V-1"))
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, account(models.VENDOR, "V-0"))
	require.NoError(t, err)

	got, err := store.GetAccount(ctx, models.VENDOR, "V-1")
	require.NoError(t, err)
	got.Balance = got.Balance.Add(decimal.RequireFromString("2.5"))
	require.NoError(t, store.PutAccount(ctx, got, 1))
	assert.Equal(t, int64(2), got.Version)

	stale := account(models.VENDOR, "V-1")
	assert.ErrorIs(t, store.PutAccount(ctx, stale, 1), storage.ErrVersionConflict)
	assert.ErrorIs(t, store.PutAccount(ctx, account(models.VENDOR, "V-9"), 3), storage.ErrVersionConflict)
	require.NoError(t, store.PutAccount(ctx, account(models.ADMIN, "A-1"), 0))

	got, err = store.GetAccount(ctx, models.VENDOR, "V-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.Balance))
	assert.Equal(t, models.TierSilver, got.Tier)

	vendors, err := store.ListAccounts(ctx, models.VENDOR)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "V-0", vendors[0].ID)
	assert.Equal(t, "V-1", vendors[1].ID)

	admins, err := store.ListAccounts(ctx, models.ADMIN)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, int64(1), admins[0].Version)
}

func testPending(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	_, err := store.GetPending(ctx, "0821234567")
	assert.ErrorIs(t, err, storage.ErrPendingNotFound)

	reward := pending("0821234567", "10")
	require.NoError(t, store.PutPending(ctx, reward, 0))
	assert.Equal(t, int64(1), reward.Version)
	assert.ErrorIs(t, store.PutPending(ctx, pending("0821234567", "3"), 0), storage.ErrVersionConflict)

	got, err := store.GetPending(ctx, "0821234567")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10").Equal(got.Amount))
	require.Len(t, got.Transactions, 1)
	assert.True(t, reward.FirstRewardAt.Equal(got.FirstRewardAt))

	require.NoError(t, store.PutPending(ctx, pending("0831234567", "4"), 0))
	all, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, store.DeletePending(ctx, "0821234567", 7), storage.ErrVersionConflict)
	assert.ErrorIs(t, store.DeletePending(ctx, "0841234567", 0), storage.ErrVersionConflict)
	require.NoError(t, store.DeletePending(ctx, "0821234567", 1))
	_, err = store.GetPending(ctx, "0821234567")
	assert.ErrorIs(t, err, storage.ErrPendingNotFound)
}

func testRecordTransaction(t *testing.T, store storage.Storage) {
	ctx := context.Background()

	require.NoError(t, store.RecordTransaction(ctx, "tx-1"))
	assert.ErrorIs(t, store.RecordTransaction(ctx, "tx-1"), storage.ErrDuplicateTransaction)
	assert.NoError(t, store.RecordTransaction(ctx, "tx-2"))

	require.NoError(t, store.ReleaseTransaction(ctx, "tx-1"))
	assert.NoError(t, store.RecordTransaction(ctx, "tx-1"))
	assert.NoError(t, store.ReleaseTransaction(ctx, "tx-never-recorded"))
}

func testCommitBatch(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	customer, err := store.CreateAccount(ctx, account(models.CUSTOMER, "6001001"))
	require.NoError(t, err)
	require.NoError(t, store.PutPending(ctx, pending("0821234567", "25"), 0))

	customer.Balance = customer.Balance.Add(decimal.RequireFromString("25"))
	batch := &storage.Batch{
		TransactionID:     "tx-batch",
		RecordTransaction: true,
		Accounts:          []storage.AccountWrite{{Account: *customer, ExpectedVersion: 1}},
		Pending:           []storage.PendingWrite{{Reward: *pending("0831234567", "3"), ExpectedVersion: 0}},
		Deletes:           []storage.PendingDelete{{Phone: "0821234567", ExpectedVersion: 1}},
	}
	require.NoError(t, store.CommitBatch(ctx, batch))

	got, err := store.GetAccount(ctx, models.CUSTOMER, "6001001")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("30").Equal(got.Balance))
	assert.Equal(t, int64(2), got.Version)

	_, err = store.GetPending(ctx, "0821234567")
	assert.ErrorIs(t, err, storage.ErrPendingNotFound)
	added, err := store.GetPending(ctx, "0831234567")
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.Version)

	replay := &storage.Batch{TransactionID: "tx-batch", RecordTransaction: true}
	assert.ErrorIs(t, store.CommitBatch(ctx, replay), storage.ErrDuplicateTransaction)
}

func testCommitBatchRollback(t *testing.T, store storage.Storage) {
	ctx := context.Background()
	customer, err := store.CreateAccount(ctx, account(models.CUSTOMER, "6001001"))
	require.NoError(t, err)
	vendor, err := store.CreateAccount(ctx, account(models.VENDOR, "V-1"))
	require.NoError(t, err)

	customer.Balance = decimal.RequireFromString("100")
	vendor.Balance = decimal.RequireFromString("100")
	batch := &storage.Batch{
		TransactionID:     "tx-rollback",
		RecordTransaction: true,
		Accounts: []storage.AccountWrite{
			{Account: *customer, ExpectedVersion: 1},
			{Account: *vendor, ExpectedVersion: 5},
		},
	}
	assert.ErrorIs(t, store.CommitBatch(ctx, batch), storage.ErrVersionConflict)

	got, err := store.GetAccount(ctx, models.CUSTOMER, "6001001")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5").Equal(got.Balance))
	assert.Equal(t, int64(1), got.Version)

	// The transaction id was not recorded by the failed batch.
	assert.NoError(t, store.RecordTransaction(ctx, "tx-rollback"))
}
