package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// QueuePublisher defines the interface for publishing events to the queue
type QueuePublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload []byte) error
}

// QueueConsumer defines the interface for consuming messages from the queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
