package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types double as AMQP routing keys under the "bid.*" binding.
const (
	TypeBidPlaced        = "bid.placed"
	TypeBidStatusChanged = "bid.status_changed"
)

// BidEvent is the message published by the API service when a bid is
// placed or its status changes, and consumed by the notifier service.
type BidEvent struct {
	Type        string    `json:"type"`
	BidID       string    `json:"bid_id"`
	JobID       string    `json:"job_id"`
	BidderEmail string    `json:"bidder_email"`
	BuyerEmail  string    `json:"buyer_email"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Marshal serializes the event for publishing.
func (e *BidEvent) Marshal() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bid event: %w", err)
	}
	return body, nil
}

// UnmarshalBidEvent parses a consumed message body and checks it carries a
// known event type.
func UnmarshalBidEvent(body []byte) (*BidEvent, error) {
	var e BidEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bid event: %w", err)
	}

	switch e.Type {
	case TypeBidPlaced, TypeBidStatusChanged:
	default:
		return nil, fmt.Errorf("unknown bid event type %q", e.Type)
	}

	if e.BidID == "" || e.JobID == "" {
		return nil, fmt.Errorf("bid event missing identifiers")
	}

	return &e, nil
}
