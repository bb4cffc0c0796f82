package model

import "time"

type Job struct {
	JobID       string    `db:"job_id"`
	Title       string    `db:"title"`
	Category    string    `db:"category"`
	Deadline    string    `db:"deadline"`
	MinPrice    float64   `db:"min_price"`
	MaxPrice    float64   `db:"max_price"`
	Description string    `db:"description"`
	BuyerEmail  string    `db:"buyer_email"`
	BuyerName   string    `db:"buyer_name"`
	BidCount    int       `db:"bid_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Bid struct {
	BidID       string    `db:"bid_id"`
	JobID       string    `db:"job_id"`
	BidderEmail string    `db:"bidder_email"`
	BuyerEmail  string    `db:"buyer_email"`
	Price       float64   `db:"price"`
	Deadline    string    `db:"deadline"`
	Comment     string    `db:"comment"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
