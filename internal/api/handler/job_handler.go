package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solobids/solobids-be/internal/api/dto"
	"github.com/solobids/solobids-be/internal/api/model"
	"github.com/solobids/solobids-be/internal/api/storage"
	"github.com/solobids/solobids-be/internal/auth"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   JobStore
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.JobStore,
	}
}

// CreateJob handles POST /add-job
// Stores a new job posting. No dedup or ownership check is applied.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	job := model.Job{
		JobID:       uuid.New().String(),
		Title:       req.Title,
		Category:    req.Category,
		Deadline:    req.Deadline,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Description: req.Description,
		BuyerEmail:  req.BuyerEmail,
		BuyerName:   req.BuyerName,
		BidCount:    0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.jobs.CreateJob(c.Request.Context(), &job); err != nil {
		respondStoreError(c, h.logger, "create job", err)
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("buyer_email", job.BuyerEmail),
	)

	c.JSON(http.StatusOK, gin.H{"insertedId": job.JobID})
}

// ListJobs handles GET /jobs
// Lists every job posting.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobs.ListJobs(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "list jobs", err)
		return
	}

	c.JSON(http.StatusOK, jobsToDTO(jobs))
}

// ListJobsByOwner handles GET /jobs/:email
// Lists the jobs owned by :email. The authenticated identity must match
// the requested one.
func (h *JobHandler) ListJobsByOwner(c *gin.Context) {
	email := c.Param("email")
	if !auth.RequireIdentity(c, email) {
		return
	}

	jobs, err := h.jobs.ListJobsByOwner(c.Request.Context(), email)
	if err != nil {
		respondStoreError(c, h.logger, "list jobs by owner", err)
		return
	}

	c.JSON(http.StatusOK, jobsToDTO(jobs))
}

// GetJob handles GET /job-update/:id
// Fetches a single job. A missing job is a valid outcome: the response
// body is null, not an error.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondStoreError(c, h.logger, "get job", err)
		return
	}

	if job == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// UpdateJob handles PUT /update-job/:id
// Merge-patch update: only the supplied fields change. The caller must be
// the job's owner.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID := c.Param("id")

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondStoreError(c, h.logger, "get job", err)
		return
	}

	if job == nil {
		c.JSON(http.StatusOK, storage.UpdateResult{})
		return
	}

	if !auth.RequireIdentity(c, job.BuyerEmail) {
		return
	}

	patch := storage.JobPatch{
		Title:       req.Title,
		Category:    req.Category,
		Deadline:    req.Deadline,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Description: req.Description,
	}

	result, err := h.jobs.UpdateJob(c.Request.Context(), jobID, patch)
	if err != nil {
		respondStoreError(c, h.logger, "update job", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteJob handles DELETE /job/:id
// Deletes a job. The caller must be the job's owner.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondStoreError(c, h.logger, "get job", err)
		return
	}

	if job == nil {
		c.JSON(http.StatusOK, gin.H{"deletedCount": 0})
		return
	}

	if !auth.RequireIdentity(c, job.BuyerEmail) {
		return
	}

	deleted, err := h.jobs.DeleteJob(c.Request.Context(), jobID)
	if err != nil {
		respondStoreError(c, h.logger, "delete job", err)
		return
	}

	h.logger.Info("Job deleted",
		slog.String("job_id", jobID),
		slog.String("buyer_email", job.BuyerEmail),
	)

	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

// SearchJobs handles GET /all-jobs
// Searches jobs by optional category filter, case-insensitive title
// substring, and deadline sort direction (query: filter, search, sort).
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid query parameters",
		})
		return
	}

	filter := storage.JobSearch{
		Category: req.Filter,
		Search:   req.Search,
	}

	switch req.Sort {
	case "asc":
		asc := true
		filter.SortAsc = &asc
	case "dsc", "desc":
		asc := false
		filter.SortAsc = &asc
	}

	jobs, err := h.jobs.SearchJobs(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, h.logger, "search jobs", err)
		return
	}

	c.JSON(http.StatusOK, jobsToDTO(jobs))
}

func jobToDTO(job *model.Job) dto.JobDTO {
	return dto.JobDTO{
		JobID:       job.JobID,
		Title:       job.Title,
		Category:    job.Category,
		Deadline:    job.Deadline,
		MinPrice:    job.MinPrice,
		MaxPrice:    job.MaxPrice,
		Description: job.Description,
		BuyerEmail:  job.BuyerEmail,
		BuyerName:   job.BuyerName,
		BidCount:    job.BidCount,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.Format(time.RFC3339),
	}
}

func jobsToDTO(jobs []model.Job) []dto.JobDTO {
	out := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		out[i] = jobToDTO(&jobs[i])
	}
	return out
}
