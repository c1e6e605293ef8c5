package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/onecard-rewards/pkg/api"
)

// TransactionIDAttribute is the message attribute carrying the allocation's transaction id.
const TransactionIDAttribute = "transaction_id"

// SQSAPI is the subset of the SQS client used by SQSEnqueuer.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSEnqueuer implements the Enqueuer interface using AWS SQS.
type SQSEnqueuer struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSEnqueuer creates a new SQSEnqueuer.
func NewSQSEnqueuer(client SQSAPI, queueURL string) *SQSEnqueuer {
	return &SQSEnqueuer{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Enqueuer = (*SQSEnqueuer)(nil)

// EnqueueAllocation sends the request as a JSON message body.
func (s *SQSEnqueuer) EnqueueAllocation(ctx context.Context, req *api.AllocationRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal allocation for SQS: %w", err)
	}

	out, err := s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			TransactionIDAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(req.TransactionId),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return aws.ToString(out.MessageId), nil
}
