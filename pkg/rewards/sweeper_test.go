package rewards

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage/memory"
	"github.com/chris/onecard-rewards/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestSweeperRun(t *testing.T) {
	t.Run("Claims Registered Phones", func(t *testing.T) {
		store := memory.New()
		ledger := NewLedger(store, testOptions())
		_, err := ledger.AddPending(context.Background(), "0821234567", dec("25"), "tx-1")
		require.NoError(t, err)
		_, err = ledger.AddPending(context.Background(), "0831234567", dec("7.5"), "tx-2")
		require.NoError(t, err)
		seedAccount(t, store, models.CUSTOMER, "0821234567", models.TierBase)

		report, err := NewSweeper(ledger).Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		assert.Equal(t, 1, report.Claimed)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 0, report.Failed)
		assertAmount(t, "25", report.Amount)
		assertAmount(t, "25", mustAccount(t, store, models.CUSTOMER, "0821234567").Balance)

		pending, err := ledger.GetPending(context.Background(), "0831234567")
		require.NoError(t, err)
		assertAmount(t, "7.5", pending)
	})

	t.Run("List Error", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("ListPending", mock.Anything).Return(nil, errors.New("scan failed"))

		report, err := NewSweeper(NewLedger(mockStore, testOptions())).Run(context.Background())

		assert.Nil(t, report)
		assert.Error(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Lookup Error Counted", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("ListPending", mock.Anything).Return([]models.PendingReward{{Phone: "0821234567", Amount: dec("5")}}, nil)
		mockStore.On("GetAccount", mock.Anything, models.CUSTOMER, "0821234567").Return(nil, errors.New("throttled"))

		report, err := NewSweeper(NewLedger(mockStore, testOptions())).Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 0, report.Claimed)
		mockStore.AssertExpectations(t)
	})
}
