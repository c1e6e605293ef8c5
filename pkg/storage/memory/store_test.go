package memory

import (
	"context"
	"testing"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := New()
	ctx := context.Background()
	_, err := store.CreateAccount(ctx, &models.BeneficiaryAccount{Type: models.CUSTOMER, ID: "6001001", Privileges: []models.Tier{models.TierVIP}})
	require.NoError(t, err)

	got, err := store.GetAccount(ctx, models.CUSTOMER, "6001001")
	require.NoError(t, err)
	got.Privileges[0] = models.TierBase
	got.Version = 9

	again, err := store.GetAccount(ctx, models.CUSTOMER, "6001001")
	require.NoError(t, err)
	assert.Equal(t, models.TierVIP, again.Privileges[0])
	assert.Equal(t, int64(1), again.Version)
}
