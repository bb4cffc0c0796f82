package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/solobids/solobids-be/shared/postgresql"
)

// Storage handles all database operations for the API service.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// schema is applied at startup. The UNIQUE constraint on
// (bidder_email, job_id) is what makes duplicate-bid detection safe under
// concurrent requests: a second insert for the same pair fails with a
// unique violation instead of racing past a lookup.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id       UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL,
	deadline     TEXT NOT NULL,
	min_price    NUMERIC NOT NULL DEFAULT 0,
	max_price    NUMERIC NOT NULL DEFAULT 0,
	description  TEXT NOT NULL DEFAULT '',
	buyer_email  TEXT NOT NULL,
	buyer_name   TEXT NOT NULL DEFAULT '',
	bid_count    INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bids (
	bid_id        UUID PRIMARY KEY,
	job_id        UUID NOT NULL,
	bidder_email  TEXT NOT NULL,
	buyer_email   TEXT NOT NULL,
	price         NUMERIC NOT NULL DEFAULT 0,
	deadline      TEXT NOT NULL DEFAULT '',
	comment       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	UNIQUE (bidder_email, job_id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_buyer_email ON jobs (buyer_email);
CREATE INDEX IF NOT EXISTS idx_bids_buyer_email ON bids (buyer_email);
`

// EnsureSchema creates the jobs and bids tables if they do not exist.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	s.logger.Info("Database schema ensured")
	return nil
}

// UpdateResult reports how many rows an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
