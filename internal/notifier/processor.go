package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/solobids/solobids-be/shared/event"
)

// ErrMalformedEvent marks a message that can never be processed; the
// consumer acks and drops it instead of requeueing.
var ErrMalformedEvent = errors.New("malformed event")

// NotificationStore is the persistence surface the processor depends on.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *Notification) error
}

// Processor turns consumed bid events into stored notifications.
type Processor struct {
	logger *slog.Logger
	store  NotificationStore
}

// NewProcessor creates a new Processor instance
func NewProcessor(store NotificationStore, logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
		store:  store,
	}
}

// Process parses one message body and stores the notification it implies.
// A bid.placed event notifies the job owner; a bid.status_changed event
// notifies the bidder.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	ev, err := event.UnmarshalBidEvent(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	var recipient, message string
	switch ev.Type {
	case event.TypeBidPlaced:
		recipient = ev.BuyerEmail
		message = fmt.Sprintf("%s placed a bid on your job", ev.BidderEmail)
	case event.TypeBidStatusChanged:
		recipient = ev.BidderEmail
		message = fmt.Sprintf("Your bid is now %s", ev.Status)
	}

	if recipient == "" {
		return fmt.Errorf("%w: event %s has no recipient", ErrMalformedEvent, ev.Type)
	}

	notification := &Notification{
		NotificationID: uuid.New().String(),
		RecipientEmail: recipient,
		EventType:      ev.Type,
		JobID:          ev.JobID,
		BidID:          ev.BidID,
		Message:        message,
		CreatedAt:      time.Now(),
	}

	if err := p.store.InsertNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	p.logger.Info("Notification stored",
		slog.String("notification_id", notification.NotificationID),
		slog.String("recipient_email", recipient),
		slog.String("event_type", ev.Type),
	)

	return nil
}
