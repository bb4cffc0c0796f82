package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/solobids/solobids-be/shared/rabbitmq"
)

// Config holds notifier configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Processor     *Processor
	Concurrency   int
	PrefetchCount int
	HandleTimeout time.Duration
}

// Notifier consumes bid events from RabbitMQ and records notifications.
type Notifier struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	processor     *Processor
	concurrency   int
	prefetchCount int
	handleTimeout time.Duration
	wg            sync.WaitGroup
}

// New creates a new Notifier instance
func New(cfg *Config) *Notifier {
	return &Notifier{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		processor:     cfg.Processor,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		handleTimeout: cfg.HandleTimeout,
	}
}

// Start consumes bid events until the context is canceled. Handlers run
// with bounded concurrency; in-flight messages are drained before Start
// returns.
func (n *Notifier) Start(ctx context.Context) error {
	deliveries, err := n.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	n.logger.Info("Notifier started",
		slog.Int("concurrency", n.concurrency),
		slog.Duration("handle_timeout", n.handleTimeout),
	)

	// Bounded concurrency: each in-flight handler holds a slot
	slots := make(chan struct{}, n.concurrency)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Notifier context canceled, draining in-flight messages")
			n.wg.Wait()
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				n.wg.Wait()
				return fmt.Errorf("delivery channel closed")
			}

			slots <- struct{}{}
			n.wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-slots
					n.wg.Done()
				}()
				n.handleDelivery(ctx, d)
			}(delivery)
		}
	}
}

// setupConsumer configures QoS and starts consuming from the queue.
func (n *Notifier) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := n.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Limit unacknowledged messages per consumer
	if err := channel.Qos(n.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	consumerTag := "notifier-" + uuid.New().String()

	deliveries, err := n.rabbitClient.Consume(consumerTag)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	n.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", consumerTag),
		slog.Int("prefetch_count", n.prefetchCount),
	)

	return deliveries, nil
}

// handleDelivery processes one message and decides its acknowledgment.
// Malformed events are acked and dropped; storage failures nack with
// requeue so the event is retried.
func (n *Notifier) handleDelivery(ctx context.Context, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, n.handleTimeout)
	defer cancel()

	err := n.processor.Process(hctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			n.logger.Error("Failed to ack message",
				slog.Any("error", ackErr),
			)
		}

	case errors.Is(err, ErrMalformedEvent):
		n.logger.Warn("Dropping malformed event",
			slog.String("error", err.Error()),
		)
		if ackErr := d.Ack(false); ackErr != nil {
			n.logger.Error("Failed to ack malformed message",
				slog.Any("error", ackErr),
			)
		}

	default:
		n.logger.Error("Failed to process event, requeueing",
			slog.String("error", err.Error()),
		)
		if nackErr := d.Nack(false, true); nackErr != nil {
			n.logger.Error("Failed to nack message",
				slog.Any("error", nackErr),
			)
		}
	}
}

// Stop waits for in-flight handlers to finish.
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notifier...")
	n.wg.Wait()
	n.logger.Info("Notifier stopped")
}
