package consumer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DispatchStageConfig configures the dispatch worker pool
type DispatchStageConfig struct {
	Workers int
}

// DispatchStage feeds decoded events into the dispatcher on a pool of
// workers. A failed message is logged and dropped, not retried: its raw
// event, if written, stays unprocessed in the event log for replay tooling.
type DispatchStage struct {
	dispatcher EventDispatcher
	config     DispatchStageConfig
	log        *zap.Logger
}

// NewDispatchStage creates a new dispatch stage
func NewDispatchStage(dispatcher EventDispatcher, config DispatchStageConfig, log *zap.Logger) *DispatchStage {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &DispatchStage{
		dispatcher: dispatcher,
		config:     config,
		log:        log,
	}
}

// Start begins consuming envelopes until the input channel closes or the
// context is cancelled
func (s *DispatchStage) Start(ctx context.Context, in <-chan *Envelope) {
	var wg sync.WaitGroup
	wg.Add(s.config.Workers)

	for i := 0; i < s.config.Workers; i++ {
		go func() {
			defer wg.Done()
			s.worker(ctx, in)
		}()
	}

	wg.Wait()
	s.log.Info("Dispatch stage shut down")
}

func (s *DispatchStage) worker(ctx context.Context, in <-chan *Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope, ok := <-in:
			if !ok {
				return
			}
			s.handle(ctx, envelope)
		}
	}
}

func (s *DispatchStage) handle(ctx context.Context, envelope *Envelope) {
	err := s.dispatch(ctx, envelope.Event)
	if err != nil {
		s.log.Error("Failed to process event, dropping message",
			zap.String("event_type", envelope.Event.Type),
			zap.Error(err))
	}

	// Acked in both cases: no retry path exists, so a failed message is
	// dropped rather than redelivered.
	if err := envelope.Ack(ctx); err != nil {
		s.log.Error("Failed to ack envelope",
			zap.String("event_type", envelope.Event.Type),
			zap.Error(err))
	}
}

func (s *DispatchStage) dispatch(ctx context.Context, event *ParsedEvent) error {
	switch {
	case event.Order != nil:
		return s.dispatcher.ProcessOrderCreated(ctx, event.Order)
	case event.Payment != nil:
		return s.dispatcher.ProcessPaymentCompleted(ctx, event.Payment)
	case event.View != nil:
		return s.dispatcher.ProcessProductViewed(ctx, event.View)
	case event.Registration != nil:
		return s.dispatcher.ProcessCustomerRegistered(ctx, event.Registration)
	default:
		return fmt.Errorf("envelope carries no event for type %q", event.Type)
	}
}
