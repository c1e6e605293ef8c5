package storage

import (
	"context"

	"github.com/chris/onecard-rewards/pkg/models"
)

// AccountReader defines the interface for reading beneficiary balances.
type AccountReader interface {
	// GetAccount retrieves an account, returning ErrAccountNotFound when absent.
	GetAccount(ctx context.Context, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error)

	// ListAccounts retrieves every account of the given type.
	ListAccounts(ctx context.Context, kind models.BeneficiaryType) ([]models.BeneficiaryAccount, error)
}

// AccountWriter defines the interface for persisting beneficiary balances.
type AccountWriter interface {
	// CreateAccount stores a new account at version 1.
	CreateAccount(ctx context.Context, account *models.BeneficiaryAccount) (*models.BeneficiaryAccount, error)

	// PutAccount replaces the account only if the stored version equals expectedVersion
	// (0 meaning the account must not exist). On success account.Version is expectedVersion+1.
	PutAccount(ctx context.Context, account *models.BeneficiaryAccount, expectedVersion int64) error
}

// AccountStore combines the reader and writer interfaces.
type AccountStore interface {
	AccountReader
	AccountWriter
}
