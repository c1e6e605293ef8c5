package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "0821234567"

func seedPending(t *testing.T, ledger *Ledger, amounts ...string) {
	t.Helper()
	for i, amount := range amounts {
		_, err := ledger.AddPending(context.Background(), testPhone, dec(amount), "tx-p"+string(rune('0'+i)))
		require.NoError(t, err)
	}
}

func TestAddPending(t *testing.T) {
	t.Run("Accumulates", func(t *testing.T) {
		ledger := NewLedger(memory.New(), testOptions())

		total, err := ledger.AddPending(context.Background(), testPhone, dec("10"), "tx-1")
		require.NoError(t, err)
		assertAmount(t, "10", total)

		total, err = ledger.AddPending(context.Background(), "+27 82 123 4567", dec("15"), "tx-2")
		require.NoError(t, err)
		assertAmount(t, "25", total)

		got, err := ledger.GetPending(context.Background(), testPhone)
		require.NoError(t, err)
		assertAmount(t, "25", got)

		history, err := ledger.History(context.Background(), testPhone)
		require.NoError(t, err)
		require.Len(t, history.Transactions, 2)
		assertAmount(t, "10", history.Transactions[0].Amount)
		assertAmount(t, "15", history.Transactions[1].Amount)
	})

	t.Run("Same Transaction Twice Not Deduplicated", func(t *testing.T) {
		ledger := NewLedger(memory.New(), testOptions())

		_, err := ledger.AddPending(context.Background(), testPhone, dec("10"), "tx-1")
		require.NoError(t, err)
		total, err := ledger.AddPending(context.Background(), testPhone, dec("10"), "tx-1")
		require.NoError(t, err)

		assertAmount(t, "20", total)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		ledger := NewLedger(memory.New(), testOptions())

		_, err := ledger.AddPending(context.Background(), "12345", dec("10"), "tx-1")
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = ledger.AddPending(context.Background(), testPhone, dec("0"), "tx-1")
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = ledger.AddPending(context.Background(), testPhone, dec("0.004"), "tx-1")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestGetPendingUnknownPhone(t *testing.T) {
	ledger := NewLedger(memory.New(), testOptions())

	got, err := ledger.GetPending(context.Background(), testPhone)
	require.NoError(t, err)
	assertAmount(t, "0", got)

	history, err := ledger.History(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Empty(t, history.Transactions)
}

func TestClaimPending(t *testing.T) {
	for name, wrap := range map[string]func(*memory.Store) storage.RewardStore{
		"Atomic":     func(s *memory.Store) storage.RewardStore { return s },
		"Sequential": func(s *memory.Store) storage.RewardStore { return sequentialStore{s} },
	} {
		t.Run("Success "+name, func(t *testing.T) {
			store := memory.New()
			ledger := NewLedger(wrap(store), testOptions())
			seedPending(t, ledger, "10", "15")
			seedAccount(t, store, models.CUSTOMER, "6001001", models.TierVIP)

			result, err := ledger.ClaimPending(context.Background(), testPhone, "6001001")

			require.NoError(t, err)
			assert.True(t, result.Claimed)
			assertAmount(t, "25", result.Amount)
			acct := mustAccount(t, store, models.CUSTOMER, "6001001")
			assertAmount(t, "25", acct.Balance)
			assertAmount(t, "25", acct.TotalEarned)
			assert.Equal(t, "claim-0821234567-"+itoa(fixedNow.UnixNano()), acct.LastTransactionID)

			pending, err := ledger.GetPending(context.Background(), testPhone)
			require.NoError(t, err)
			assertAmount(t, "0", pending)

			again, err := ledger.ClaimPending(context.Background(), testPhone, "6001001")
			require.NoError(t, err)
			assert.False(t, again.Claimed)
			assertAmount(t, "0", again.Amount)
			assertAmount(t, "25", mustAccount(t, store, models.CUSTOMER, "6001001").Balance)
		})
	}

	t.Run("Missing Account Keeps Escrow", func(t *testing.T) {
		store := memory.New()
		ledger := NewLedger(store, testOptions())
		seedPending(t, ledger, "25")

		result, err := ledger.ClaimPending(context.Background(), testPhone, "6009999")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		pending, err := ledger.GetPending(context.Background(), testPhone)
		require.NoError(t, err)
		assertAmount(t, "25", pending)
	})

	t.Run("Commit Failure Keeps Escrow", func(t *testing.T) {
		store := memory.New()
		seedAccount(t, store, models.CUSTOMER, "6001001", models.TierBase)
		ledger := NewLedger(&failingBatchStore{Store: store, err: errors.New("connection reset")}, testOptions())
		seedPending(t, ledger, "25")

		_, err := ledger.ClaimPending(context.Background(), testPhone, "6001001")

		assert.Error(t, err)
		pending, err := ledger.GetPending(context.Background(), testPhone)
		require.NoError(t, err)
		assertAmount(t, "25", pending)
		assertAmount(t, "0", mustAccount(t, store, models.CUSTOMER, "6001001").Balance)
	})

	t.Run("Retry After Delete Failure Pays Once", func(t *testing.T) {
		store := memory.New()
		seedAccount(t, store, models.CUSTOMER, "6001001", models.TierBase)
		faulty := &faultyStore{RewardStore: store, deletePendingErr: errors.New("timeout"), deleteFailures: 1}
		ledger := NewLedger(faulty, testOptions())
		seedPending(t, ledger, "25")

		_, err := ledger.ClaimPending(context.Background(), testPhone, "6001001")
		require.Error(t, err)
		assertAmount(t, "25", mustAccount(t, store, models.CUSTOMER, "6001001").Balance)

		result, err := ledger.ClaimPending(context.Background(), testPhone, "6001001")
		require.NoError(t, err)
		assert.True(t, result.Claimed)
		assertAmount(t, "25", mustAccount(t, store, models.CUSTOMER, "6001001").Balance)
		_, err = store.GetPending(context.Background(), testPhone)
		assert.ErrorIs(t, err, storage.ErrPendingNotFound)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		ledger := NewLedger(memory.New(), testOptions())

		_, err := ledger.ClaimPending(context.Background(), "bad", "6001001")
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = ledger.ClaimPending(context.Background(), testPhone, " ")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
