package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solobids/solobids-be/internal/api/domain"
	"github.com/solobids/solobids-be/internal/api/model"
	"github.com/solobids/solobids-be/internal/auth"
	"github.com/solobids/solobids-be/shared/event"
)

func bidRouter(deps *Dependencies) *gin.Engine {
	h := NewBidHandler(deps)
	guard := auth.RequireAuth(deps.Issuer)

	r := gin.New()
	r.POST("/add-bid", h.PlaceBid)
	r.GET("/bids/:email", guard, h.ListBids)
	r.PATCH("/update-bid-status/:id", h.UpdateBidStatus)
	return r
}

func sampleBid(bidID, jobID, bidderEmail, buyerEmail string, status domain.BidStatus) *model.Bid {
	return &model.Bid{
		BidID:       bidID,
		JobID:       jobID,
		BidderEmail: bidderEmail,
		BuyerEmail:  buyerEmail,
		Price:       150,
		Deadline:    "2026-09-20",
		Status:      string(status),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestPlaceBid(t *testing.T) {
	placeBody := `{
		"job_id": "job-1",
		"bidder_email": "bob@example.com",
		"price": 150,
		"deadline": "2026-09-20",
		"comment": "Can start immediately"
	}`

	t.Run("bid is stored, counter bumped and event published", func(t *testing.T) {
		jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
		bids := newFakeBidStore(jobs)
		publisher := &fakePublisher{}
		r := bidRouter(testDeps(jobs, bids, publisher))

		req := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		w := serve(r, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["insertedId"])

		stored := bids.bids[resp["insertedId"]]
		require.NotNil(t, stored)
		assert.Equal(t, string(domain.BidStatusPending), stored.Status)
		assert.Equal(t, 1, jobs.jobs["job-1"].BidCount)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, event.TypeBidPlaced, publisher.published[0].routingKey)

		ev, err := event.UnmarshalBidEvent(publisher.published[0].body)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", ev.BidderEmail)
		assert.Equal(t, "alice@example.com", ev.BuyerEmail)
	})

	t.Run("second bid on the same job is rejected with plain text", func(t *testing.T) {
		jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
		bids := newFakeBidStore(jobs)
		publisher := &fakePublisher{}
		r := bidRouter(testDeps(jobs, bids, publisher))

		first := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		require.Equal(t, http.StatusOK, serve(r, first).Code)

		second := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		w := serve(r, second)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You have already placed a bid on this job", w.Body.String())

		// Only the first placement counted or published
		assert.Equal(t, 1, jobs.jobs["job-1"].BidCount)
		assert.Len(t, publisher.published, 1)
	})

	t.Run("bid on a missing job is rejected", func(t *testing.T) {
		jobs := newFakeJobStore()
		r := bidRouter(testDeps(jobs, newFakeBidStore(jobs), &fakePublisher{}))

		req := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		w := serve(r, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message": "job not found"}`, w.Body.String())
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
		bids := newFakeBidStore(jobs)
		publisher := &fakePublisher{err: context.DeadlineExceeded}
		r := bidRouter(testDeps(jobs, bids, publisher))

		req := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("store timeout maps to 503", func(t *testing.T) {
		jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
		bids := newFakeBidStore(jobs)
		bids.err = context.DeadlineExceeded
		r := bidRouter(testDeps(jobs, bids, &fakePublisher{}))

		req := httptest.NewRequest(http.MethodPost, "/add-bid", strings.NewReader(placeBody))
		w := serve(r, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"message": "service unavailable"}`, w.Body.String())
	})
}

func TestUpdateBidStatus(t *testing.T) {
	newRouter := func(status domain.BidStatus) (*fakeBidStore, *fakePublisher, *gin.Engine) {
		jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
		bids := newFakeBidStore(jobs, sampleBid("bid-1", "job-1", "bob@example.com", "alice@example.com", status))
		publisher := &fakePublisher{}
		return bids, publisher, bidRouter(testDeps(jobs, bids, publisher))
	}

	patch := func(r *gin.Engine, bidID, status string) *httptest.ResponseRecorder {
		body := `{"status": "` + status + `"}`
		req := httptest.NewRequest(http.MethodPatch, "/update-bid-status/"+bidID, strings.NewReader(body))
		return serve(r, req)
	}

	t.Run("pending bid can be accepted", func(t *testing.T) {
		bids, publisher, r := newRouter(domain.BidStatusPending)

		w := patch(r, "bid-1", "in-progress")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"matchedCount": 1, "modifiedCount": 1}`, w.Body.String())
		assert.Equal(t, string(domain.BidStatusInProgress), bids.bids["bid-1"].Status)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, event.TypeBidStatusChanged, publisher.published[0].routingKey)
	})

	t.Run("pending bid can be rejected", func(t *testing.T) {
		bids, _, r := newRouter(domain.BidStatusPending)

		w := patch(r, "bid-1", "rejected")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(domain.BidStatusRejected), bids.bids["bid-1"].Status)
	})

	t.Run("accepted bid can be completed", func(t *testing.T) {
		bids, _, r := newRouter(domain.BidStatusInProgress)

		w := patch(r, "bid-1", "complete")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(domain.BidStatusComplete), bids.bids["bid-1"].Status)
	})

	t.Run("illegal transitions are rejected", func(t *testing.T) {
		tests := []struct {
			name string
			from domain.BidStatus
			to   string
		}{
			{name: "pending cannot complete", from: domain.BidStatusPending, to: "complete"},
			{name: "rejected is terminal", from: domain.BidStatusRejected, to: "in-progress"},
			{name: "complete is terminal", from: domain.BidStatusComplete, to: "pending"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				bids, publisher, r := newRouter(tt.from)

				w := patch(r, "bid-1", tt.to)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, string(tt.from), bids.bids["bid-1"].Status)
				assert.Empty(t, publisher.published)
			})
		}
	})

	t.Run("unknown status value is rejected", func(t *testing.T) {
		_, _, r := newRouter(domain.BidStatusPending)

		w := patch(r, "bid-1", "cancelled")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing bid yields zero counts", func(t *testing.T) {
		_, publisher, r := newRouter(domain.BidStatusPending)

		w := patch(r, "nope", "in-progress")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"matchedCount": 0, "modifiedCount": 0}`, w.Body.String())
		assert.Empty(t, publisher.published)
	})
}

func TestListBids(t *testing.T) {
	jobs := newFakeJobStore(sampleJob("job-1", "alice@example.com"))
	bids := newFakeBidStore(jobs,
		sampleBid("bid-1", "job-1", "bob@example.com", "alice@example.com", domain.BidStatusPending),
		sampleBid("bid-2", "job-1", "carol@example.com", "alice@example.com", domain.BidStatusPending),
	)
	deps := testDeps(jobs, bids, nil)
	r := bidRouter(deps)

	t.Run("bidder sees their own bids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bids/bob@example.com", nil)
		authorize(t, req, deps.Issuer, "bob@example.com")
		w := serve(r, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "bid-1", resp[0]["bid_id"])
	})

	t.Run("buyer flag lists bids against their jobs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bids/alice@example.com?buyer=true", nil)
		authorize(t, req, deps.Issuer, "alice@example.com")
		w := serve(r, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("a valid session for another user is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bids/bob@example.com", nil)
		authorize(t, req, deps.Issuer, "carol@example.com")
		w := serve(r, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
