package dto

type CreateJobRequest struct {
	Title       string  `json:"title" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Deadline    string  `json:"deadline" binding:"required"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	Description string  `json:"description"`
	BuyerEmail  string  `json:"buyer_email" binding:"required"`
	BuyerName   string  `json:"buyer_name"`
}

// UpdateJobRequest carries a merge-patch: only non-nil fields are written.
type UpdateJobRequest struct {
	Title       *string  `json:"title"`
	Category    *string  `json:"category"`
	Deadline    *string  `json:"deadline"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	Description *string  `json:"description"`
}

type SearchJobsRequest struct {
	Filter string `form:"filter"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

type JobDTO struct {
	JobID       string  `json:"job_id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Deadline    string  `json:"deadline"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	Description string  `json:"description"`
	BuyerEmail  string  `json:"buyer_email"`
	BuyerName   string  `json:"buyer_name"`
	BidCount    int     `json:"bid_count"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
