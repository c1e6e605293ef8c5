package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
)

// GetPending retrieves the escrow entry for a phone number.
func (s *Store) GetPending(ctx context.Context, phone string) (*models.PendingReward, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.PendingTableName),
		Key: map[string]types.AttributeValue{
			"phone": &types.AttributeValueMemberS{Value: phone},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending reward from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrPendingNotFound
	}

	var item pendingItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending reward: %w", err)
	}

	return item.toModel()
}

// ListPending scans the whole pending table.
func (s *Store) ListPending(ctx context.Context) ([]models.PendingReward, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.PendingTableName),
	}

	rewards := make([]models.PendingReward, 0)
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending table: %w", err)
		}

		var items []pendingItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pending rewards: %w", err)
		}
		for _, item := range items {
			reward, err := item.toModel()
			if err != nil {
				return nil, err
			}
			rewards = append(rewards, *reward)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return rewards, nil
}

// PutPending writes the escrow entry conditioned on the stored version.
func (s *Store) PutPending(ctx context.Context, reward *models.PendingReward, expectedVersion int64) error {
	put, err := s.pendingPut(reward, expectedVersion)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrVersionConflict
		}
		return fmt.Errorf("failed to put pending reward in DynamoDB: %w", err)
	}

	reward.Version = expectedVersion + 1
	return nil
}

// DeletePending removes the escrow entry if it is still at expectedVersion.
func (s *Store) DeletePending(ctx context.Context, phone string, expectedVersion int64) error {
	del := s.pendingDelete(phone, expectedVersion)
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 del.TableName,
		Key:                       del.Key,
		ConditionExpression:       del.ConditionExpression,
		ExpressionAttributeValues: del.ExpressionAttributeValues,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrVersionConflict
		}
		return fmt.Errorf("failed to delete pending reward from DynamoDB: %w", err)
	}
	return nil
}

func (s *Store) pendingPut(reward *models.PendingReward, expectedVersion int64) (*types.Put, error) {
	next := *reward
	next.Version = expectedVersion + 1
	rewardAV, err := attributevalue.MarshalMap(toPendingItem(&next))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pending reward: %w", err)
	}

	put := &types.Put{
		TableName: aws.String(s.PendingTableName),
		Item:      rewardAV,
	}
	if expectedVersion == 0 {
		put.ConditionExpression = aws.String("attribute_not_exists(phone)")
	} else {
		put.ConditionExpression = aws.String("version = :version")
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		}
	}
	return put, nil
}

func (s *Store) pendingDelete(phone string, expectedVersion int64) *types.Delete {
	return &types.Delete{
		TableName: aws.String(s.PendingTableName),
		Key: map[string]types.AttributeValue{
			"phone": &types.AttributeValueMemberS{Value: phone},
		},
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		},
	}
}
