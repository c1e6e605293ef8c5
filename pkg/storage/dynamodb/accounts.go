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

// GetAccount retrieves an account from DynamoDB by its type and identifier.
func (s *Store) GetAccount(ctx context.Context, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_key": &types.AttributeValueMemberS{Value: accountKey(kind, id)},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrAccountNotFound
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return item.toModel()
}

// ListAccounts scans the accounts table for every account of one type.
func (s *Store) ListAccounts(ctx context.Context, kind models.BeneficiaryType) ([]models.BeneficiaryAccount, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.AccountsTableName),
		FilterExpression: aws.String("#type = :type"),
		ExpressionAttributeNames: map[string]string{
			"#type": "type",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":type": &types.AttributeValueMemberS{Value: string(kind)},
		},
	}

	accounts := make([]models.BeneficiaryAccount, 0)
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table: %w", err)
		}

		var items []accountItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		for _, item := range items {
			acct, err := item.toModel()
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, *acct)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return accounts, nil
}

// CreateAccount creates a new account record in DynamoDB.
func (s *Store) CreateAccount(ctx context.Context, account *models.BeneficiaryAccount) (*models.BeneficiaryAccount, error) {
	account.Version = 1
	accountAV, err := attributevalue.MarshalMap(toAccountItem(account))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(account_key)"), // Prevent overwriting existing accounts.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	return account, nil
}

// PutAccount writes the account conditioned on the stored version.
func (s *Store) PutAccount(ctx context.Context, account *models.BeneficiaryAccount, expectedVersion int64) error {
	put, err := s.accountPut(account, expectedVersion)
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
		return fmt.Errorf("failed to put account in DynamoDB: %w", err)
	}

	account.Version = expectedVersion + 1
	return nil
}

// accountPut builds the conditional Put shared by PutAccount and CommitBatch.
func (s *Store) accountPut(account *models.BeneficiaryAccount, expectedVersion int64) (*types.Put, error) {
	next := *account
	next.Version = expectedVersion + 1
	accountAV, err := attributevalue.MarshalMap(toAccountItem(&next))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	put := &types.Put{
		TableName: aws.String(s.AccountsTableName),
		Item:      accountAV,
	}
	if expectedVersion == 0 {
		put.ConditionExpression = aws.String("attribute_not_exists(account_key)")
	} else {
		put.ConditionExpression = aws.String("version = :version")
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		}
	}
	return put, nil
}
