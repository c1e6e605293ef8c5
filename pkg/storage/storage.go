package storage

// RewardStore is the data access the reward engine needs.
// Components should depend on the narrower interfaces where possible.
type RewardStore interface {
	AccountStore
	PendingStore
	TransactionRecorder
}

// Storage defines the root interface for the entire data layer.
// Every shipped backend also supports atomic batches.
type Storage interface {
	RewardStore
	AtomicWriter
}
