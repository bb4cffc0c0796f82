package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solobids/solobids-be/internal/api/model"
)

const jobColumns = `
	job_id, title, category, deadline, min_price, max_price,
	description, buyer_email, buyer_name, bid_count, created_at, updated_at
`

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, title, category, deadline, min_price, max_price,
			description, buyer_email, buyer_name, bid_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.Title,
		job.Category,
		job.Deadline,
		job.MinPrice,
		job.MaxPrice,
		job.Description,
		job.BuyerEmail,
		job.BuyerName,
		job.BidCount,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJobByID returns the job with the given ID, or (nil, nil) when no such
// job exists. Absence is a valid outcome, not an error.
func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *Storage) ListJobs(ctx context.Context) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *Storage) ListJobsByOwner(ctx context.Context, email string) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE buyer_email = $1 ORDER BY created_at DESC`

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query, email); err != nil {
		return nil, fmt.Errorf("failed to list jobs by owner: %w", err)
	}

	return jobs, nil
}

// JobPatch carries a merge-patch update: only non-nil fields are written.
type JobPatch struct {
	Title       *string
	Category    *string
	Deadline    *string
	MinPrice    *float64
	MaxPrice    *float64
	Description *string
}

func (s *Storage) UpdateJob(ctx context.Context, jobID string, patch JobPatch) (*UpdateResult, error) {
	query := `UPDATE jobs SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if patch.Title != nil {
		query += fmt.Sprintf(", title = $%d", argIdx)
		args = append(args, *patch.Title)
		argIdx++
	}

	if patch.Category != nil {
		query += fmt.Sprintf(", category = $%d", argIdx)
		args = append(args, *patch.Category)
		argIdx++
	}

	if patch.Deadline != nil {
		query += fmt.Sprintf(", deadline = $%d", argIdx)
		args = append(args, *patch.Deadline)
		argIdx++
	}

	if patch.MinPrice != nil {
		query += fmt.Sprintf(", min_price = $%d", argIdx)
		args = append(args, *patch.MinPrice)
		argIdx++
	}

	if patch.MaxPrice != nil {
		query += fmt.Sprintf(", max_price = $%d", argIdx)
		args = append(args, *patch.MaxPrice)
		argIdx++
	}

	if patch.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIdx)
		args = append(args, *patch.Description)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE job_id = $%d", argIdx)
	args = append(args, jobID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return &UpdateResult{MatchedCount: rows, ModifiedCount: rows}, nil
}

func (s *Storage) DeleteJob(ctx context.Context, jobID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// JobSearch holds the optional search/filter/sort parameters.
type JobSearch struct {
	Category string
	Search   string
	SortAsc  *bool
}

// SearchJobs returns jobs matching an optional exact category and an
// optional case-insensitive title substring, sorted by deadline when
// requested. An empty search term matches every job.
func (s *Storage) SearchJobs(ctx context.Context, filter JobSearch) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	switch {
	case filter.SortAsc == nil:
		query += " ORDER BY created_at DESC"
	case *filter.SortAsc:
		query += " ORDER BY deadline ASC"
	default:
		query += " ORDER BY deadline DESC"
	}

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	return jobs, nil
}
