package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/solobids/solobids-be/internal/api/domain"
	"github.com/solobids/solobids-be/internal/api/model"
)

// pqUniqueViolation is the PostgreSQL error code for a unique constraint
// violation.
const pqUniqueViolation = "23505"

const bidColumns = `
	bid_id, job_id, bidder_email, buyer_email, price,
	deadline, comment, status, created_at, updated_at
`

// PlaceBid inserts a bid and increments the target job's bid counter in a
// single transaction. The insert and the counter increment commit or roll
// back together, so a bid row never exists without its increment and the
// counter is never bumped without a row.
//
// A second bid for the same (bidder_email, job_id) pair trips the unique
// constraint and returns domain.ErrDuplicateBid. A bid against a missing
// job returns domain.ErrJobNotFound.
func (s *Storage) PlaceBid(ctx context.Context, bid *model.Bid) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Resolve the job owner inside the transaction so the denormalized
	// buyer_email on the bid matches the job row it was placed against.
	var buyerEmail string
	err = tx.GetContext(ctx, &buyerEmail, `SELECT buyer_email FROM jobs WHERE job_id = $1`, bid.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrJobNotFound
		}
		return fmt.Errorf("failed to resolve job owner: %w", err)
	}
	bid.BuyerEmail = buyerEmail

	insert := `
		INSERT INTO bids (
			bid_id, job_id, bidder_email, buyer_email, price,
			deadline, comment, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
	`

	_, err = tx.ExecContext(
		ctx,
		insert,
		bid.BidID,
		bid.JobID,
		bid.BidderEmail,
		bid.BuyerEmail,
		bid.Price,
		bid.Deadline,
		bid.Comment,
		bid.Status,
		bid.CreatedAt,
		bid.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			s.logger.Warn("Duplicate bid rejected",
				slog.String("job_id", bid.JobID),
				slog.String("bidder_email", bid.BidderEmail),
			)
			return domain.ErrDuplicateBid
		}
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE jobs SET bid_count = bid_count + 1, updated_at = NOW() WHERE job_id = $1`,
		bid.JobID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment bid count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bid placement: %w", err)
	}

	s.logger.Info("Bid placed",
		slog.String("bid_id", bid.BidID),
		slog.String("job_id", bid.JobID),
		slog.String("bidder_email", bid.BidderEmail),
	)

	return nil
}

// GetBidByID returns the bid with the given ID, or (nil, nil) when no such
// bid exists.
func (s *Storage) GetBidByID(ctx context.Context, bidID string) (*model.Bid, error) {
	var bid model.Bid
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bid_id = $1`

	err := s.db.GetContext(ctx, &bid, query, bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return &bid, nil
}

// UpdateBidStatus moves a bid from one status to another. The WHERE clause
// pins the expected current status, so a concurrent transition loses the
// race and reports zero matched rows instead of overwriting.
func (s *Storage) UpdateBidStatus(ctx context.Context, bidID string, from, to domain.BidStatus) (*UpdateResult, error) {
	query := `
		UPDATE bids
		SET status = $1, updated_at = NOW()
		WHERE bid_id = $2 AND status = $3
	`

	result, err := s.db.ExecContext(ctx, query, string(to), bidID, string(from))
	if err != nil {
		return nil, fmt.Errorf("failed to update bid status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		s.logger.Warn("Bid status update matched no rows",
			slog.String("bid_id", bidID),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	}

	return &UpdateResult{MatchedCount: rows, ModifiedCount: rows}, nil
}

// ListBidsForUser returns the bids a user placed, or, when asBuyer is set,
// the bids placed against that user's jobs (via the denormalized
// buyer_email).
func (s *Storage) ListBidsForUser(ctx context.Context, email string, asBuyer bool) ([]model.Bid, error) {
	column := "bidder_email"
	if asBuyer {
		column = "buyer_email"
	}

	query := `SELECT ` + bidColumns + ` FROM bids WHERE ` + column + ` = $1 ORDER BY created_at DESC`

	var bids []model.Bid
	if err := s.db.SelectContext(ctx, &bids, query, email); err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}

	return bids, nil
}
