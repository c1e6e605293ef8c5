package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/queue/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAllocation(t *testing.T) {
	cashback := decimal.RequireFromString("12.50")
	customer := "6001001"
	req := &api.AllocationRequest{
		TransactionId:    "tx-1",
		BeneficiaryClass: api.Customer,
		CustomerId:       &customer,
		CustomerCashback: &cashback,
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var sent api.AllocationRequest
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &sent); err != nil {
				return false
			}
			attr := in.MessageAttributes[TransactionIDAttribute]
			return aws.ToString(in.QueueUrl) == "https://sqs.local/rewards" &&
				sent.TransactionId == "tx-1" &&
				sent.CustomerCashback.Equal(cashback) &&
				aws.ToString(attr.StringValue) == "tx-1"
		})).Return(&sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil)

		enqueuer := NewSQSEnqueuer(mockClient, "https://sqs.local/rewards")
		id, err := enqueuer.EnqueueAllocation(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "msg-1", id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Send Error", func(t *testing.T) {
		mockClient := new(mocks.SQSAPI)
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		enqueuer := NewSQSEnqueuer(mockClient, "https://sqs.local/rewards")
		_, err := enqueuer.EnqueueAllocation(context.Background(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
		mockClient.AssertExpectations(t)
	})
}
