// Package bolt persists reward balances in a local bbolt database file.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketAccounts  = []byte("accounts")
	bucketPending   = []byte("pending")
	bucketProcessed = []byte("processed")
)

// Store implements the Storage interface on a single bbolt file.
// Every write, including a whole Batch, runs inside one bolt transaction.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketPending, bucketProcessed} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func accountKey(kind models.BeneficiaryType, id string) []byte {
	return []byte(string(kind) + "#" + id)
}

// GetAccount reads the account, or returns ErrAccountNotFound.
func (s *Store) GetAccount(ctx context.Context, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error) {
	var acct *models.BeneficiaryAccount
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		acct, err = readAccount(tx, kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, storage.ErrAccountNotFound
	}
	return acct, nil
}

// ListAccounts walks the accounts bucket over the key prefix of one type.
func (s *Store) ListAccounts(ctx context.Context, kind models.BeneficiaryType) ([]models.BeneficiaryAccount, error) {
	accounts := make([]models.BeneficiaryAccount, 0)
	prefix := []byte(string(kind) + "#")
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAccounts).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var acct models.BeneficiaryAccount
			if err := json.Unmarshal(v, &acct); err != nil {
				return fmt.Errorf("failed to unmarshal account %s: %w", k, err)
			}
			accounts = append(accounts, acct)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount stores a new account at version 1, failing if it already exists.
func (s *Store) CreateAccount(ctx context.Context, account *models.BeneficiaryAccount) (*models.BeneficiaryAccount, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		existing, err := readAccount(tx, account.Type, account.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrAccountExists
		}
		account.Version = 1
		return putJSON(tx.Bucket(bucketAccounts), accountKey(account.Type, account.ID), account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// PutAccount writes the account conditioned on the stored version.
func (s *Store) PutAccount(ctx context.Context, account *models.BeneficiaryAccount, expectedVersion int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return writeAccount(tx, account, expectedVersion)
	})
}

// GetPending reads the escrow entry for phone, or returns ErrPendingNotFound.
func (s *Store) GetPending(ctx context.Context, phone string) (*models.PendingReward, error) {
	var reward *models.PendingReward
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		reward, err = readPending(tx, phone)
		return err
	})
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, storage.ErrPendingNotFound
	}
	return reward, nil
}

// ListPending returns every entry in the pending bucket.
func (s *Store) ListPending(ctx context.Context) ([]models.PendingReward, error) {
	rewards := make([]models.PendingReward, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).ForEach(func(k, v []byte) error {
			var reward models.PendingReward
			if err := json.Unmarshal(v, &reward); err != nil {
				return fmt.Errorf("failed to unmarshal pending reward %s: %w", k, err)
			}
			rewards = append(rewards, reward)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

// PutPending writes the escrow entry conditioned on the stored version.
func (s *Store) PutPending(ctx context.Context, reward *models.PendingReward, expectedVersion int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return writePending(tx, reward, expectedVersion)
	})
}

// DeletePending removes the escrow entry if it is still at expectedVersion.
func (s *Store) DeletePending(ctx context.Context, phone string, expectedVersion int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return deletePending(tx, phone, expectedVersion)
	})
}

// RecordTransaction stores txID in the processed bucket, failing on a replay.
func (s *Store) RecordTransaction(ctx context.Context, txID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return recordTransaction(tx, txID)
	})
}

// ReleaseTransaction deletes txID from the processed bucket.
func (s *Store) ReleaseTransaction(ctx context.Context, txID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProcessed).Delete([]byte(txID))
	})
}

// CommitBatch applies the batch in one bolt transaction; any failed condition rolls back all writes.
func (s *Store) CommitBatch(ctx context.Context, batch *storage.Batch) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if batch.RecordTransaction {
			if err := recordTransaction(tx, batch.TransactionID); err != nil {
				return err
			}
		}
		for _, w := range batch.Accounts {
			acct := w.Account
			if err := writeAccount(tx, &acct, w.ExpectedVersion); err != nil {
				return err
			}
		}
		for _, w := range batch.Pending {
			reward := w.Reward
			if err := writePending(tx, &reward, w.ExpectedVersion); err != nil {
				return err
			}
		}
		for _, d := range batch.Deletes {
			if err := deletePending(tx, d.Phone, d.ExpectedVersion); err != nil {
				return err
			}
		}
		return nil
	})
}

func readAccount(tx *bolt.Tx, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error) {
	raw := tx.Bucket(bucketAccounts).Get(accountKey(kind, id))
	if raw == nil {
		return nil, nil
	}
	var acct models.BeneficiaryAccount
	if err := json.Unmarshal(raw, &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &acct, nil
}

func writeAccount(tx *bolt.Tx, account *models.BeneficiaryAccount, expectedVersion int64) error {
	current, err := readAccount(tx, account.Type, account.ID)
	if err != nil {
		return err
	}
	if err := checkVersion(current != nil, versionOf(current), expectedVersion); err != nil {
		return err
	}
	account.Version = expectedVersion + 1
	return putJSON(tx.Bucket(bucketAccounts), accountKey(account.Type, account.ID), account)
}

func readPending(tx *bolt.Tx, phone string) (*models.PendingReward, error) {
	raw := tx.Bucket(bucketPending).Get([]byte(phone))
	if raw == nil {
		return nil, nil
	}
	var reward models.PendingReward
	if err := json.Unmarshal(raw, &reward); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending reward: %w", err)
	}
	return &reward, nil
}

func writePending(tx *bolt.Tx, reward *models.PendingReward, expectedVersion int64) error {
	current, err := readPending(tx, reward.Phone)
	if err != nil {
		return err
	}
	var version int64
	if current != nil {
		version = current.Version
	}
	if err := checkVersion(current != nil, version, expectedVersion); err != nil {
		return err
	}
	reward.Version = expectedVersion + 1
	return putJSON(tx.Bucket(bucketPending), []byte(reward.Phone), reward)
}

func deletePending(tx *bolt.Tx, phone string, expectedVersion int64) error {
	current, err := readPending(tx, phone)
	if err != nil {
		return err
	}
	if current == nil || current.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	return tx.Bucket(bucketPending).Delete([]byte(phone))
}

func recordTransaction(tx *bolt.Tx, txID string) error {
	b := tx.Bucket(bucketProcessed)
	if b.Get([]byte(txID)) != nil {
		return storage.ErrDuplicateTransaction
	}
	stamp, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}
	return b.Put([]byte(txID), stamp)
}

func versionOf(acct *models.BeneficiaryAccount) int64 {
	if acct == nil {
		return 0
	}
	return acct.Version
}

func checkVersion(exists bool, current, expected int64) error {
	if !exists && expected != 0 {
		return storage.ErrVersionConflict
	}
	if exists && current != expected {
		return storage.ErrVersionConflict
	}
	return nil
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return b.Put(key, raw)
}
