package queue

import (
	"context"

	"github.com/chris/onecard-rewards/pkg/api"
)

// Enqueuer defines the interface for handing an allocation to an asynchronous worker.
type Enqueuer interface {
	// EnqueueAllocation publishes the request and returns the broker's message id.
	EnqueueAllocation(ctx context.Context, req *api.AllocationRequest) (string, error)
}
