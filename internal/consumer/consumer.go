package consumer

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/config"
	"github.com/Hobbit71/cloudshop/internal/queue"
)

// Consumer orchestrates a pipeline of stages to process SQS messages:
// receive -> parse -> dispatch.
type Consumer struct {
	receiver      *Receiver
	parser        *ParserStage
	dispatchStage *DispatchStage
	bufferSize    int
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, dispatcher EventDispatcher, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     int32(cfg.Consumer.MaxMessages),
		WaitTimeSeconds: int32(cfg.Consumer.WaitTimeSeconds),
		BufferSize:      cfg.Consumer.BufferSize,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONEventParser(), log)

	dispatchStage := NewDispatchStage(dispatcher, DispatchStageConfig{
		Workers: cfg.Consumer.Workers,
	}, log)

	return &Consumer{
		receiver:      receiver,
		parser:        parser,
		dispatchStage: dispatchStage,
		bufferSize:    cfg.Consumer.BufferSize,
	}
}

// Start begins the consumer pipeline
func (c *Consumer) Start(ctx context.Context) error {
	bufferSize := c.bufferSize
	if bufferSize <= 0 {
		bufferSize = 100
	}

	messageChan := make(chan types.Message, bufferSize)
	envelopeChan := make(chan *Envelope, bufferSize)

	var wg sync.WaitGroup

	// Start all pipeline stages
	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Dispatch envelopes through the pipeline
	go func() {
		defer wg.Done()
		c.dispatchStage.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
