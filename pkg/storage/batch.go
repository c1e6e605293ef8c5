package storage

import (
	"context"

	"github.com/chris/onecard-rewards/pkg/models"
)

// AccountWrite is a compare-and-swap account write inside a Batch.
type AccountWrite struct {
	Account         models.BeneficiaryAccount
	ExpectedVersion int64
}

// PendingWrite is a compare-and-swap escrow write inside a Batch.
type PendingWrite struct {
	Reward          models.PendingReward
	ExpectedVersion int64
}

// PendingDelete removes an escrow entry inside a Batch.
type PendingDelete struct {
	Phone           string
	ExpectedVersion int64
}

// Batch is the full set of writes produced by one allocation or claim.
type Batch struct {
	TransactionID string
	// RecordTransaction also stores TransactionID as processed, failing the
	// whole batch with ErrDuplicateTransaction on a replay.
	RecordTransaction bool
	Accounts          []AccountWrite
	Pending           []PendingWrite
	Deletes           []PendingDelete
}

// Empty reports whether the batch carries no writes.
func (b *Batch) Empty() bool {
	return len(b.Accounts) == 0 && len(b.Pending) == 0 && len(b.Deletes) == 0
}

// AtomicWriter is implemented by stores that can commit a Batch all-or-nothing.
type AtomicWriter interface {
	CommitBatch(ctx context.Context, batch *Batch) error
}

// TransactionRecorder stores processed transaction ids for replay protection.
type TransactionRecorder interface {
	// RecordTransaction returns ErrDuplicateTransaction if txID was recorded before.
	RecordTransaction(ctx context.Context, txID string) error
	// ReleaseTransaction forgets txID so a failed attempt can be retried.
	// Releasing an id that was never recorded is not an error.
	ReleaseTransaction(ctx context.Context, txID string) error
}
