package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/mapping"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
)

// AccountsHandler holds the dependencies for account handlers.
type AccountsHandler struct {
	Store storage.AccountStore
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(store storage.AccountStore) *AccountsHandler {
	return &AccountsHandler{Store: store}
}

// CreateAccount registers a zero-balance account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var newAccount api.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&newAccount); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	newAccount.Id = strings.TrimSpace(newAccount.Id)
	if !models.BeneficiaryType(newAccount.Type).Valid() || newAccount.Id == "" {
		http.Error(w, "Account type must be customer, vendor or admin and id is required", http.StatusBadRequest)
		return
	}

	created, err := h.Store.CreateAccount(r.Context(), mapping.ToDomainNewAccount(&newAccount, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			http.Error(w, "Account already exists", http.StatusConflict)
		} else {
			http.Error(w, fmt.Sprintf("Failed to create account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAccount(created)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListAccounts returns every account of one type.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request, accountType string) {
	kind := models.BeneficiaryType(accountType)
	if !kind.Valid() {
		http.Error(w, fmt.Sprintf("Unknown account type %q", accountType), http.StatusBadRequest)
		return
	}

	domainAccounts, err := h.Store.ListAccounts(r.Context(), kind)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve accounts: %v", err), http.StatusInternalServerError)
		return
	}

	apiAccounts := make([]*api.Account, len(domainAccounts))
	for i := range domainAccounts {
		apiAccounts[i] = mapping.ToApiAccount(&domainAccounts[i])
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAccounts); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetAccount returns a single account.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountType string, accountId string) {
	kind := models.BeneficiaryType(accountType)
	if !kind.Valid() {
		http.Error(w, fmt.Sprintf("Unknown account type %q", accountType), http.StatusBadRequest)
		return
	}

	acct, err := h.Store.GetAccount(r.Context(), kind, accountId)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAccount(acct)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
