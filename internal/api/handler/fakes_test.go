package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/solobids/solobids-be/internal/api/domain"
	"github.com/solobids/solobids-be/internal/api/model"
	"github.com/solobids/solobids-be/internal/api/storage"
	"github.com/solobids/solobids-be/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeJobStore struct {
	jobs map[string]*model.Job

	err error

	lastPatch  storage.JobPatch
	lastSearch storage.JobSearch
}

func newFakeJobStore(jobs ...*model.Job) *fakeJobStore {
	s := &fakeJobStore{jobs: make(map[string]*model.Job)}
	for _, job := range jobs {
		s.jobs[job.JobID] = job
	}
	return s
}

func (s *fakeJobStore) CreateJob(_ context.Context, job *model.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs[job.JobID] = job
	return nil
}

func (s *fakeJobStore) GetJobByID(_ context.Context, jobID string) (*model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs[jobID], nil
}

func (s *fakeJobStore) ListJobs(_ context.Context) ([]model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (s *fakeJobStore) ListJobsByOwner(_ context.Context, email string) ([]model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Job
	for _, job := range s.jobs {
		if job.BuyerEmail == email {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *fakeJobStore) UpdateJob(_ context.Context, jobID string, patch storage.JobPatch) (*storage.UpdateResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastPatch = patch
	if _, ok := s.jobs[jobID]; !ok {
		return &storage.UpdateResult{}, nil
	}
	return &storage.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *fakeJobStore) DeleteJob(_ context.Context, jobID string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.jobs[jobID]; !ok {
		return 0, nil
	}
	delete(s.jobs, jobID)
	return 1, nil
}

func (s *fakeJobStore) SearchJobs(_ context.Context, filter storage.JobSearch) ([]model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastSearch = filter
	return s.ListJobs(context.Background())
}

type fakeBidStore struct {
	bids map[string]*model.Bid
	jobs *fakeJobStore

	err       error
	statusErr error
}

func newFakeBidStore(jobs *fakeJobStore, bids ...*model.Bid) *fakeBidStore {
	s := &fakeBidStore{bids: make(map[string]*model.Bid), jobs: jobs}
	for _, bid := range bids {
		s.bids[bid.BidID] = bid
	}
	return s
}

func (s *fakeBidStore) PlaceBid(_ context.Context, bid *model.Bid) error {
	if s.err != nil {
		return s.err
	}

	job, ok := s.jobs.jobs[bid.JobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	for _, existing := range s.bids {
		if existing.JobID == bid.JobID && existing.BidderEmail == bid.BidderEmail {
			return domain.ErrDuplicateBid
		}
	}

	bid.BuyerEmail = job.BuyerEmail
	s.bids[bid.BidID] = bid
	job.BidCount++
	return nil
}

func (s *fakeBidStore) GetBidByID(_ context.Context, bidID string) (*model.Bid, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bids[bidID], nil
}

func (s *fakeBidStore) UpdateBidStatus(_ context.Context, bidID string, from, to domain.BidStatus) (*storage.UpdateResult, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	bid, ok := s.bids[bidID]
	if !ok || bid.Status != string(from) {
		return &storage.UpdateResult{}, nil
	}
	bid.Status = string(to)
	return &storage.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *fakeBidStore) ListBidsForUser(_ context.Context, email string, asBuyer bool) ([]model.Bid, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Bid
	for _, bid := range s.bids {
		if (asBuyer && bid.BuyerEmail == email) || (!asBuyer && bid.BidderEmail == email) {
			out = append(out, *bid)
		}
	}
	return out, nil
}

type publishedEvent struct {
	routingKey string
	body       []byte
}

type fakePublisher struct {
	published []publishedEvent
	err       error
}

func (p *fakePublisher) PublishWithRetry(_ context.Context, routingKey string, body []byte, _ string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{routingKey: routingKey, body: body})
	return nil
}

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("test-signing-secret", time.Hour, "solobids-api")
}

func testDeps(jobs *fakeJobStore, bids *fakeBidStore, publisher *fakePublisher) *Dependencies {
	return &Dependencies{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		JobStore:    jobs,
		BidStore:    bids,
		Publisher:   publisher,
		Issuer:      testIssuer(),
		Environment: "test",
	}
}

// authorize attaches a session cookie for email to the request.
func authorize(t *testing.T, req *http.Request, issuer *auth.Issuer, email string) {
	t.Helper()

	token, err := issuer.Issue(email)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
