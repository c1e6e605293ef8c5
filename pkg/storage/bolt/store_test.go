package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/storagetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return openTestStore(t, filepath.Join(t.TempDir(), "rewards.db"))
	})
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, &models.BeneficiaryAccount{
		Type:    models.CUSTOMER,
		ID:      "6001001",
		Balance: decimal.RequireFromString("12.34"),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := openTestStore(t, path)
	got, err := reopened.GetAccount(ctx, models.CUSTOMER, "6001001")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.34").Equal(got.Balance))
	assert.Equal(t, int64(1), got.Version)
}
