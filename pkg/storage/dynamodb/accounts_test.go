package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/chris/onecard-rewards/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAccount() *models.BeneficiaryAccount {
	return &models.BeneficiaryAccount{
		Type:        models.CUSTOMER,
		ID:          "6001001",
		Balance:     decimal.RequireFromString("12.50"),
		TotalEarned: decimal.RequireFromString("40.25"),
		Tier:        models.TierVIP,
		Privileges:  []models.Tier{models.TierPremium},
		Version:     3,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGetAccount(t *testing.T) {
	acct := testAccount()

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		itemAV, err := attributevalue.MarshalMap(toAccountItem(acct))
		require.NoError(t, err)
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			key := in.Key["account_key"].(*types.AttributeValueMemberS)
			return *in.TableName == "accounts" && key.Value == "customer#6001001"
		})).Return(&dynamodb.GetItemOutput{Item: itemAV}, nil)

		store := New(mockClient, "accounts", "pending", "processed")
		got, err := store.GetAccount(context.Background(), models.CUSTOMER, "6001001")

		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(got.Balance))
		assert.True(t, acct.TotalEarned.Equal(got.TotalEarned))
		assert.Equal(t, acct.Tier, got.Tier)
		assert.Equal(t, acct.Privileges, got.Privileges)
		assert.Equal(t, int64(3), got.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "accounts", "pending", "processed")
		_, err := store.GetAccount(context.Background(), models.CUSTOMER, "6001001")

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "accounts", "pending", "processed")
		_, err := store.GetAccount(context.Background(), models.CUSTOMER, "6001001")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get account from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "accounts", "pending", "processed")
		created, err := store.CreateAccount(context.Background(), testAccount())

		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "accounts", "pending", "processed")
		_, err := store.CreateAccount(context.Background(), testAccount())

		assert.ErrorIs(t, err, storage.ErrAccountExists)
		mockClient.AssertExpectations(t)
	})
}

func TestPutAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			version := in.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN)
			return *in.ConditionExpression == "version = :version" && version.Value == "3"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "accounts", "pending", "processed")
		acct := testAccount()
		err := store.PutAccount(context.Background(), acct, 3)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), acct.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "accounts", "pending", "processed")
		err := store.PutAccount(context.Background(), testAccount(), 3)

		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		mockClient.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("Follows Pagination", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		first, _ := attributevalue.MarshalMap(toAccountItem(testAccount()))
		second := testAccount()
		second.ID = "6001002"
		secondAV, _ := attributevalue.MarshalMap(toAccountItem(second))

		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey == nil
		})).Return(&dynamodb.ScanOutput{
			Items:            []map[string]types.AttributeValue{first},
			LastEvaluatedKey: map[string]types.AttributeValue{"account_key": &types.AttributeValueMemberS{Value: "customer#6001001"}},
		}, nil).Once()
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{secondAV}}, nil).Once()

		store := New(mockClient, "accounts", "pending", "processed")
		accounts, err := store.ListAccounts(context.Background(), models.CUSTOMER)

		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "6001002", accounts[1].ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "accounts", "pending", "processed")
		_, err := store.ListAccounts(context.Background(), models.VENDOR)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan accounts table")
		mockClient.AssertExpectations(t)
	})
}
