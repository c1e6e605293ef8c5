// Package bootstrap builds the shared dependencies of the service binaries from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/onecard-rewards/pkg/config"
	"github.com/chris/onecard-rewards/pkg/metrics"
	"github.com/chris/onecard-rewards/pkg/queue"
	"github.com/chris/onecard-rewards/pkg/rewards"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/bolt"
	dydbstore "github.com/chris/onecard-rewards/pkg/storage/dynamodb"
	"github.com/chris/onecard-rewards/pkg/storage/memory"
)

// OpenStore opens the configured storage backend. The returned close function
// must be called on shutdown.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), noop, nil
	case config.BackendBolt:
		store, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return dydbstore.New(client, cfg.AccountsTable, cfg.PendingTable, cfg.ProcessedTable), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewEnqueuer returns the SQS enqueuer, or nil when no queue is configured.
func NewEnqueuer(ctx context.Context, cfg *config.Config) (queue.Enqueuer, error) {
	if cfg.SQSQueueURL == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return queue.NewSQSEnqueuer(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), nil
}

// RewardOptions maps configuration onto the reward engine options.
func RewardOptions(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) rewards.Options {
	return rewards.Options{
		Logger:             logger,
		Metrics:            m,
		RejectDuplicates:   cfg.RejectDuplicates,
		MaxConflictRetries: cfg.MaxConflictRetries,
	}
}
