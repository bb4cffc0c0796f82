package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solobids/solobids-be/internal/api/domain"
	"github.com/solobids/solobids-be/internal/api/model"
	"github.com/solobids/solobids-be/internal/api/storage"
	"github.com/solobids/solobids-be/internal/auth"
)

// JobStore is the job persistence surface handlers depend on.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	ListJobsByOwner(ctx context.Context, email string) ([]model.Job, error)
	UpdateJob(ctx context.Context, jobID string, patch storage.JobPatch) (*storage.UpdateResult, error)
	DeleteJob(ctx context.Context, jobID string) (int64, error)
	SearchJobs(ctx context.Context, filter storage.JobSearch) ([]model.Job, error)
}

// BidStore is the bid persistence surface handlers depend on.
type BidStore interface {
	PlaceBid(ctx context.Context, bid *model.Bid) error
	GetBidByID(ctx context.Context, bidID string) (*model.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID string, from, to domain.BidStatus) (*storage.UpdateResult, error)
	ListBidsForUser(ctx context.Context, email string, asBuyer bool) ([]model.Bid, error)
}

// EventPublisher publishes domain events for the notifier service.
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	JobStore    JobStore
	BidStore    BidStore
	Publisher   EventPublisher
	Issuer      *auth.Issuer
	Environment string
}

// respondStoreError maps a storage failure to a generic 5xx response.
// Store error detail stays in the logs, never in the client payload.
func respondStoreError(c *gin.Context, logger *slog.Logger, op string, err error) {
	logger.Error("Storage operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)

	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "service unavailable",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "service error",
	})
}
