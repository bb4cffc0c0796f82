package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solobids/solobids-be/shared/postgresql"
)

// Notification is a stored, per-user record of a bid event.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	RecipientEmail string    `db:"recipient_email"`
	EventType      string    `db:"event_type"`
	JobID          string    `db:"job_id"`
	BidID          string    `db:"bid_id"`
	Message        string    `db:"message"`
	CreatedAt      time.Time `db:"created_at"`
}

// Storage handles all database operations for the notifier
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	notification_id  UUID PRIMARY KEY,
	recipient_email  TEXT NOT NULL,
	event_type       TEXT NOT NULL,
	job_id           UUID NOT NULL,
	bid_id           UUID NOT NULL,
	message          TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_email);
`

// EnsureSchema creates the notifications table if it does not exist.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	s.logger.Info("Notifications schema ensured")
	return nil
}

// InsertNotification stores a notification record.
func (s *Storage) InsertNotification(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (
			notification_id, recipient_email, event_type,
			job_id, bid_id, message, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		n.NotificationID,
		n.RecipientEmail,
		n.EventType,
		n.JobID,
		n.BidID,
		n.Message,
		n.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}
