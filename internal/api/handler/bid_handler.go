package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solobids/solobids-be/internal/api/domain"
	"github.com/solobids/solobids-be/internal/api/dto"
	"github.com/solobids/solobids-be/internal/api/model"
	"github.com/solobids/solobids-be/internal/api/storage"
	"github.com/solobids/solobids-be/internal/auth"
	"github.com/solobids/solobids-be/shared/event"
)

// BidHandler handles bid-related HTTP requests
type BidHandler struct {
	logger    *slog.Logger
	bids      BidStore
	jobs      JobStore
	publisher EventPublisher
}

// NewBidHandler creates a new BidHandler instance
func NewBidHandler(deps *Dependencies) *BidHandler {
	return &BidHandler{
		logger:    deps.Logger,
		bids:      deps.BidStore,
		jobs:      deps.JobStore,
		publisher: deps.Publisher,
	}
}

// PlaceBid handles POST /add-bid
// Inserts a bid and bumps the target job's bid counter in one transaction.
// A second bid by the same bidder on the same job is rejected with a plain
// 400.
func (h *BidHandler) PlaceBid(c *gin.Context) {
	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	bid := model.Bid{
		BidID:       uuid.New().String(),
		JobID:       req.JobID,
		BidderEmail: req.BidderEmail,
		Price:       req.Price,
		Deadline:    req.Deadline,
		Comment:     req.Comment,
		Status:      string(domain.BidStatusPending),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := h.bids.PlaceBid(c.Request.Context(), &bid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBid):
			c.String(http.StatusBadRequest, "You have already placed a bid on this job")
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "job not found",
			})
		default:
			respondStoreError(c, h.logger, "place bid", err)
		}
		return
	}

	h.publishBidEvent(c, &event.BidEvent{
		Type:        event.TypeBidPlaced,
		BidID:       bid.BidID,
		JobID:       bid.JobID,
		BidderEmail: bid.BidderEmail,
		BuyerEmail:  bid.BuyerEmail,
		Status:      bid.Status,
		OccurredAt:  time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"insertedId": bid.BidID})
}

// UpdateBidStatus handles PATCH /update-bid-status/:id
// Moves a bid through the status graph. Unknown statuses and illegal
// transitions are rejected with 400.
func (h *BidHandler) UpdateBidStatus(c *gin.Context) {
	bidID := c.Param("id")

	var req dto.UpdateBidStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	to, err := domain.ParseBidStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	bid, err := h.bids.GetBidByID(c.Request.Context(), bidID)
	if err != nil {
		respondStoreError(c, h.logger, "get bid", err)
		return
	}

	if bid == nil {
		c.JSON(http.StatusOK, storage.UpdateResult{})
		return
	}

	from, err := domain.ParseBidStatus(bid.Status)
	if err != nil {
		respondStoreError(c, h.logger, "parse stored bid status", err)
		return
	}

	if !domain.IsTransitionAllowed(from, to) {
		h.logger.Warn("Bid status transition rejected",
			slog.String("bid_id", bidID),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"message": domain.ErrInvalidTransition.Error(),
		})
		return
	}

	result, err := h.bids.UpdateBidStatus(c.Request.Context(), bidID, from, to)
	if err != nil {
		respondStoreError(c, h.logger, "update bid status", err)
		return
	}

	if result.ModifiedCount > 0 {
		h.publishBidEvent(c, &event.BidEvent{
			Type:        event.TypeBidStatusChanged,
			BidID:       bid.BidID,
			JobID:       bid.JobID,
			BidderEmail: bid.BidderEmail,
			BuyerEmail:  bid.BuyerEmail,
			Status:      string(to),
			OccurredAt:  time.Now(),
		})
	}

	c.JSON(http.StatusOK, result)
}

// ListBids handles GET /bids/:email
// Lists the bids a user placed, or the bids against their jobs when
// buyer=true. The authenticated identity must match the requested one.
func (h *BidHandler) ListBids(c *gin.Context) {
	email := c.Param("email")
	if !auth.RequireIdentity(c, email) {
		return
	}

	var req dto.ListBidsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid query parameters",
		})
		return
	}

	bids, err := h.bids.ListBidsForUser(c.Request.Context(), email, req.Buyer)
	if err != nil {
		respondStoreError(c, h.logger, "list bids", err)
		return
	}

	out := make([]dto.BidDTO, len(bids))
	for i, b := range bids {
		out[i] = dto.BidDTO{
			BidID:       b.BidID,
			JobID:       b.JobID,
			BidderEmail: b.BidderEmail,
			BuyerEmail:  b.BuyerEmail,
			Price:       b.Price,
			Deadline:    b.Deadline,
			Comment:     b.Comment,
			Status:      b.Status,
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, out)
}

// publishBidEvent publishes a bid event for the notifier. Publishing is
// best-effort: the mutation already committed, so a broker failure is
// logged and the response stays successful.
func (h *BidHandler) publishBidEvent(c *gin.Context, ev *event.BidEvent) {
	if h.publisher == nil {
		return
	}

	body, err := ev.Marshal()
	if err != nil {
		h.logger.Error("Failed to marshal bid event",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := h.publisher.PublishWithRetry(c.Request.Context(), ev.Type, body, "application/json"); err != nil {
		h.logger.Warn("Failed to publish bid event",
			slog.String("type", ev.Type),
			slog.String("bid_id", ev.BidID),
			slog.String("error", err.Error()),
		)
	}
}
