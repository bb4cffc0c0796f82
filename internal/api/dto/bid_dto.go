package dto

type PlaceBidRequest struct {
	JobID       string  `json:"job_id" binding:"required"`
	BidderEmail string  `json:"bidder_email" binding:"required"`
	Price       float64 `json:"price"`
	Deadline    string  `json:"deadline"`
	Comment     string  `json:"comment"`
}

type UpdateBidStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListBidsRequest struct {
	Buyer bool `form:"buyer"`
}

type BidDTO struct {
	BidID       string  `json:"bid_id"`
	JobID       string  `json:"job_id"`
	BidderEmail string  `json:"bidder_email"`
	BuyerEmail  string  `json:"buyer_email"`
	Price       float64 `json:"price"`
	Deadline    string  `json:"deadline"`
	Comment     string  `json:"comment"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
