package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/onecard-rewards/pkg/storage"
)

// maxTransactItems is the DynamoDB limit on items in one TransactWriteItems call.
const maxTransactItems = 100

// RecordTransaction stores txID in the processed table, failing on a replay.
func (s *Store) RecordTransaction(ctx context.Context, txID string) error {
	put, err := s.processedPut(txID)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           put.TableName,
		Item:                put.Item,
		ConditionExpression: put.ConditionExpression,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to record transaction in DynamoDB: %w", err)
	}
	return nil
}

// ReleaseTransaction deletes txID from the processed table.
func (s *Store) ReleaseTransaction(ctx context.Context, txID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.ProcessedTableName),
		Key: map[string]types.AttributeValue{
			"transaction_id": &types.AttributeValueMemberS{Value: txID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to release transaction in DynamoDB: %w", err)
	}
	return nil
}

// CommitBatch writes every item of the batch in a single TransactWriteItems call.
func (s *Store) CommitBatch(ctx context.Context, batch *storage.Batch) error {
	var items []types.TransactWriteItem
	processedIdx := -1

	if batch.RecordTransaction {
		put, err := s.processedPut(batch.TransactionID)
		if err != nil {
			return err
		}
		processedIdx = len(items)
		items = append(items, types.TransactWriteItem{Put: put})
	}
	for _, w := range batch.Accounts {
		acct := w.Account
		put, err := s.accountPut(&acct, w.ExpectedVersion)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}
	for _, w := range batch.Pending {
		reward := w.Reward
		put, err := s.pendingPut(&reward, w.ExpectedVersion)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}
	for _, d := range batch.Deletes {
		items = append(items, types.TransactWriteItem{Delete: s.pendingDelete(d.Phone, d.ExpectedVersion)})
	}

	if len(items) == 0 {
		return nil
	}
	if len(items) > maxTransactItems {
		return fmt.Errorf("batch of %d items exceeds the transaction limit of %d", len(items), maxTransactItems)
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for i, reason := range tce.CancellationReasons {
				if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
					continue
				}
				if i == processedIdx {
					return storage.ErrDuplicateTransaction
				}
				return storage.ErrVersionConflict
			}
		}
		return fmt.Errorf("failed to execute allocation transaction: %w", err)
	}

	return nil
}

func (s *Store) processedPut(txID string) (*types.Put, error) {
	itemAV, err := attributevalue.MarshalMap(processedItem{
		TransactionID: txID,
		ProcessedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal processed transaction: %w", err)
	}
	return &types.Put{
		TableName:           aws.String(s.ProcessedTableName),
		Item:                itemAV,
		ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
	}, nil
}
