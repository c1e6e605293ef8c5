package storage

import (
	"context"

	"github.com/chris/onecard-rewards/pkg/models"
)

// PendingStore defines the interface for the escrow of rewards owed to unregistered phone numbers.
type PendingStore interface {
	// GetPending retrieves the escrow entry for a phone, returning ErrPendingNotFound when absent.
	GetPending(ctx context.Context, phone string) (*models.PendingReward, error)

	// ListPending retrieves every escrow entry.
	ListPending(ctx context.Context) ([]models.PendingReward, error)

	// PutPending replaces the entry with compare-and-swap semantics identical to PutAccount.
	PutPending(ctx context.Context, reward *models.PendingReward, expectedVersion int64) error

	// DeletePending removes the entry only if its stored version equals expectedVersion.
	DeletePending(ctx context.Context, phone string, expectedVersion int64) error
}
