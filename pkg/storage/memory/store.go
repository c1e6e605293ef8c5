// Package memory is an in-process implementation of the storage interfaces.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
)

type accountKey struct {
	kind models.BeneficiaryType
	id   string
}

// Store keeps all records in maps guarded by a single mutex.
type Store struct {
	mu        sync.Mutex
	accounts  map[accountKey]models.BeneficiaryAccount
	pending   map[string]models.PendingReward
	processed map[string]time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:  make(map[accountKey]models.BeneficiaryAccount),
		pending:   make(map[string]models.PendingReward),
		processed: make(map[string]time.Time),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// GetAccount returns a copy of the account, or ErrAccountNotFound.
func (s *Store) GetAccount(ctx context.Context, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountKey{kind, id}]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return cloneAccount(acct), nil
}

// ListAccounts returns every account of one type ordered by id.
func (s *Store) ListAccounts(ctx context.Context, kind models.BeneficiaryType) ([]models.BeneficiaryAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.BeneficiaryAccount, 0)
	for k, acct := range s.accounts {
		if k.kind == kind {
			accounts = append(accounts, *cloneAccount(acct))
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// CreateAccount stores a new account at version 1.
func (s *Store) CreateAccount(ctx context.Context, account *models.BeneficiaryAccount) (*models.BeneficiaryAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{account.Type, account.ID}
	if _, ok := s.accounts[key]; ok {
		return nil, storage.ErrAccountExists
	}
	account.Version = 1
	s.accounts[key] = *cloneAccount(*account)
	return account, nil
}

// PutAccount writes the account if the stored version equals expectedVersion.
func (s *Store) PutAccount(ctx context.Context, account *models.BeneficiaryAccount, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAccount(account.Type, account.ID, expectedVersion); err != nil {
		return err
	}
	account.Version = expectedVersion + 1
	s.accounts[accountKey{account.Type, account.ID}] = *cloneAccount(*account)
	return nil
}

// GetPending returns a copy of the escrow entry for phone, or ErrPendingNotFound.
func (s *Store) GetPending(ctx context.Context, phone string) (*models.PendingReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reward, ok := s.pending[phone]
	if !ok {
		return nil, storage.ErrPendingNotFound
	}
	return clonePending(reward), nil
}

// ListPending returns every escrow entry ordered by phone.
func (s *Store) ListPending(ctx context.Context) ([]models.PendingReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rewards := make([]models.PendingReward, 0, len(s.pending))
	for _, reward := range s.pending {
		rewards = append(rewards, *clonePending(reward))
	}
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].Phone < rewards[j].Phone })
	return rewards, nil
}

// PutPending writes the escrow entry if the stored version equals expectedVersion.
func (s *Store) PutPending(ctx context.Context, reward *models.PendingReward, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPending(reward.Phone, expectedVersion); err != nil {
		return err
	}
	reward.Version = expectedVersion + 1
	s.pending[reward.Phone] = *clonePending(*reward)
	return nil
}

// DeletePending removes the escrow entry if it is still at expectedVersion.
func (s *Store) DeletePending(ctx context.Context, phone string, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDelete(phone, expectedVersion); err != nil {
		return err
	}
	delete(s.pending, phone)
	return nil
}

// RecordTransaction marks txID as processed, failing on a replay.
func (s *Store) RecordTransaction(ctx context.Context, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processed[txID]; ok {
		return storage.ErrDuplicateTransaction
	}
	s.processed[txID] = time.Now()
	return nil
}

// ReleaseTransaction removes txID from the processed set.
func (s *Store) ReleaseTransaction(ctx context.Context, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.processed, txID)
	return nil
}

// CommitBatch validates every condition before applying any write.
func (s *Store) CommitBatch(ctx context.Context, batch *storage.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batch.RecordTransaction {
		if _, ok := s.processed[batch.TransactionID]; ok {
			return storage.ErrDuplicateTransaction
		}
	}
	for _, w := range batch.Accounts {
		if err := s.checkAccount(w.Account.Type, w.Account.ID, w.ExpectedVersion); err != nil {
			return err
		}
	}
	for _, w := range batch.Pending {
		if err := s.checkPending(w.Reward.Phone, w.ExpectedVersion); err != nil {
			return err
		}
	}
	for _, d := range batch.Deletes {
		if err := s.checkDelete(d.Phone, d.ExpectedVersion); err != nil {
			return err
		}
	}

	for _, w := range batch.Accounts {
		acct := *cloneAccount(w.Account)
		acct.Version = w.ExpectedVersion + 1
		s.accounts[accountKey{acct.Type, acct.ID}] = acct
	}
	for _, w := range batch.Pending {
		reward := *clonePending(w.Reward)
		reward.Version = w.ExpectedVersion + 1
		s.pending[reward.Phone] = reward
	}
	for _, d := range batch.Deletes {
		delete(s.pending, d.Phone)
	}
	if batch.RecordTransaction {
		s.processed[batch.TransactionID] = time.Now()
	}
	return nil
}

func (s *Store) checkAccount(kind models.BeneficiaryType, id string, expectedVersion int64) error {
	current, ok := s.accounts[accountKey{kind, id}]
	switch {
	case !ok && expectedVersion != 0:
		return storage.ErrVersionConflict
	case ok && current.Version != expectedVersion:
		return storage.ErrVersionConflict
	}
	return nil
}

func (s *Store) checkPending(phone string, expectedVersion int64) error {
	current, ok := s.pending[phone]
	switch {
	case !ok && expectedVersion != 0:
		return storage.ErrVersionConflict
	case ok && current.Version != expectedVersion:
		return storage.ErrVersionConflict
	}
	return nil
}

func (s *Store) checkDelete(phone string, expectedVersion int64) error {
	current, ok := s.pending[phone]
	if !ok || current.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	return nil
}

func cloneAccount(a models.BeneficiaryAccount) *models.BeneficiaryAccount {
	if a.Privileges != nil {
		a.Privileges = append([]models.Tier(nil), a.Privileges...)
	}
	if a.LastCreditAt != nil {
		t := *a.LastCreditAt
		a.LastCreditAt = &t
	}
	return &a
}

func clonePending(p models.PendingReward) *models.PendingReward {
	p.Transactions = append([]models.PendingTransaction(nil), p.Transactions...)
	return &p
}
