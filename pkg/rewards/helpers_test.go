package rewards

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/memory"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:                func() time.Time { return fixedNow },
		MaxConflictRetries: 3,
	}
}

func seedAccount(t *testing.T, store storage.AccountWriter, kind models.BeneficiaryType, id string, tier models.Tier) {
	t.Helper()
	_, err := store.CreateAccount(context.Background(), &models.BeneficiaryAccount{
		Type:        kind,
		ID:          id,
		Balance:     dec("0"),
		TotalEarned: dec("0"),
		Tier:        tier,
		CreatedAt:   fixedNow,
	})
	require.NoError(t, err)
}

func mustAccount(t *testing.T, store storage.AccountReader, kind models.BeneficiaryType, id string) *models.BeneficiaryAccount {
	t.Helper()
	acct, err := store.GetAccount(context.Background(), kind, id)
	require.NoError(t, err)
	return acct
}

// sequentialStore hides CommitBatch so the non-atomic path is used.
type sequentialStore struct {
	storage.RewardStore
}

// faultyStore fails selected writes of the wrapped store.
type faultyStore struct {
	storage.RewardStore

	mu                 sync.Mutex
	putAccountErr      error
	putAccountFailures int
	putPendingErr      error
	deletePendingErr   error
	deleteFailures     int
}

func (s *faultyStore) PutAccount(ctx context.Context, account *models.BeneficiaryAccount, expectedVersion int64) error {
	s.mu.Lock()
	if s.putAccountFailures > 0 {
		s.putAccountFailures--
		s.mu.Unlock()
		return s.putAccountErr
	}
	s.mu.Unlock()
	return s.RewardStore.PutAccount(ctx, account, expectedVersion)
}

func (s *faultyStore) PutPending(ctx context.Context, reward *models.PendingReward, expectedVersion int64) error {
	if s.putPendingErr != nil {
		return s.putPendingErr
	}
	return s.RewardStore.PutPending(ctx, reward, expectedVersion)
}

func (s *faultyStore) DeletePending(ctx context.Context, phone string, expectedVersion int64) error {
	s.mu.Lock()
	if s.deleteFailures > 0 {
		s.deleteFailures--
		s.mu.Unlock()
		return s.deletePendingErr
	}
	s.mu.Unlock()
	return s.RewardStore.DeletePending(ctx, phone, expectedVersion)
}

// failingBatchStore rejects every batch.
type failingBatchStore struct {
	*memory.Store
	err error
}

func (s *failingBatchStore) CommitBatch(ctx context.Context, batch *storage.Batch) error {
	return s.err
}
