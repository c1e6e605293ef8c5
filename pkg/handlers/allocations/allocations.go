package allocations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/mapping"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/queue"
	"github.com/chris/onecard-rewards/pkg/rewards"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/google/uuid"
)

// Allocator runs one allocation synchronously.
type Allocator interface {
	Allocate(ctx context.Context, req *models.AllocationRequest) (*models.AllocationResult, error)
}

// AllocationsHandler holds the dependencies for allocation handlers.
type AllocationsHandler struct {
	Allocator Allocator
	Queue     queue.Enqueuer
}

// NewAllocationsHandler creates a new AllocationsHandler. enqueuer may be nil,
// in which case asynchronous allocation is unavailable.
func NewAllocationsHandler(allocator Allocator, enqueuer queue.Enqueuer) *AllocationsHandler {
	return &AllocationsHandler{Allocator: allocator, Queue: enqueuer}
}

// Allocate runs an allocation and returns every outcome.
func (h *AllocationsHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req api.AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Allocator.Allocate(r.Context(), mapping.ToDomainAllocationRequest(&req))
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storage.ErrDuplicateTransaction):
			http.Error(w, "Transaction already allocated", http.StatusConflict)
		default:
			body := api.AllocationError{Error: fmt.Sprintf("Failed to allocate rewards: %v", err)}
			if result != nil {
				body.Result = mapping.ToApiAllocationResult(result)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(body)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAllocationResult(result)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// QueueAllocation validates the request and hands it to the allocation worker.
// A missing transaction id is assigned here so the caller can correlate the result.
func (h *AllocationsHandler) QueueAllocation(w http.ResponseWriter, r *http.Request) {
	if h.Queue == nil {
		http.Error(w, "Allocation queue is not configured", http.StatusServiceUnavailable)
		return
	}

	var req api.AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.TransactionId == "" {
		req.TransactionId = uuid.NewString()
	}
	if _, err := rewards.ValidateRequest(mapping.ToDomainAllocationRequest(&req)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	messageID, err := h.Queue.EnqueueAllocation(r.Context(), &req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to enqueue allocation: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(api.QueuedAllocation{TransactionId: req.TransactionId, MessageId: messageID}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
