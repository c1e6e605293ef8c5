package storage

import "errors"

// ErrAccountNotFound is returned when no account exists for a type and identifier.
// For the allocation engine this is the normal "not yet registered" case.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when creating an account whose identifier is already taken.
var ErrAccountExists = errors.New("account already exists")

// ErrPendingNotFound is returned when no escrowed reward exists for a phone number.
var ErrPendingNotFound = errors.New("pending reward not found")

// ErrVersionConflict is returned when a compare-and-swap write finds a different stored version.
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicateTransaction is returned when a transaction id has already been recorded.
var ErrDuplicateTransaction = errors.New("transaction already processed")
