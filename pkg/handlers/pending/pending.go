package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/mapping"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/rewards"
	"github.com/chris/onecard-rewards/pkg/storage"
)

// Ledger is the part of the pending reward ledger exposed over HTTP.
type Ledger interface {
	History(ctx context.Context, phone string) (*models.PendingReward, error)
	ClaimPending(ctx context.Context, phone, accountID string) (*models.ClaimResult, error)
}

// PendingHandler holds the dependencies for pending reward handlers.
type PendingHandler struct {
	Ledger Ledger
}

// NewPendingHandler creates a new PendingHandler.
func NewPendingHandler(ledger Ledger) *PendingHandler {
	return &PendingHandler{Ledger: ledger}
}

// GetPending returns the escrow for a phone. Unknown phones report a zero amount.
func (h *PendingHandler) GetPending(w http.ResponseWriter, r *http.Request, phone string) {
	reward, err := h.Ledger.History(r.Context(), phone)
	if err != nil {
		if errors.Is(err, rewards.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve pending reward: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiPendingReward(reward)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ClaimPending moves the escrow for a phone into a registered customer account.
func (h *PendingHandler) ClaimPending(w http.ResponseWriter, r *http.Request, phone string) {
	var claim api.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Ledger.ClaimPending(r.Context(), phone, claim.AccountId)
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storage.ErrAccountNotFound):
			http.Error(w, "Customer account not found", http.StatusNotFound)
		default:
			http.Error(w, fmt.Sprintf("Failed to claim pending reward: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiClaimResult(result)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
