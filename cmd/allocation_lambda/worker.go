package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/handlers/allocations"
	"github.com/chris/onecard-rewards/pkg/mapping"
	"github.com/chris/onecard-rewards/pkg/rewards"
	"github.com/chris/onecard-rewards/pkg/storage"
)

type worker struct {
	allocator allocations.Allocator
	logger    *slog.Logger
}

func newWorker(allocator allocations.Allocator, logger *slog.Logger) *worker {
	return &worker{allocator: allocator, logger: logger}
}

// HandleRequest allocates every message of the batch. Only failures that a
// redelivery can fix are reported back to SQS; malformed, invalid and
// duplicate messages are dropped, as is a partially applied allocation.
func (w *worker) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		logger := w.logger.With("message_id", message.MessageId)

		var req api.AllocationRequest
		if err := json.Unmarshal([]byte(message.Body), &req); err != nil {
			logger.ErrorContext(ctx, "dropping malformed allocation message", "error", err)
			continue
		}
		logger = logger.With("transaction_id", req.TransactionId)

		result, err := w.allocator.Allocate(ctx, mapping.ToDomainAllocationRequest(&req))
		switch {
		case err == nil:
			logger.InfoContext(ctx, "allocation processed", "outcomes", len(result.Outcomes))
		case errors.Is(err, rewards.ErrInvalidRequest):
			logger.ErrorContext(ctx, "dropping invalid allocation", "error", err)
		case errors.Is(err, storage.ErrDuplicateTransaction):
			logger.WarnContext(ctx, "allocation already processed")
		case result != nil && result.Partial:
			logger.ErrorContext(ctx, "allocation partially applied, not retrying", "error", err, "committed", len(result.Outcomes))
		default:
			logger.ErrorContext(ctx, "allocation failed, will be retried", "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}

	return resp, nil
}
