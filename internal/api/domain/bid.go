package domain

import "fmt"

// BidStatus values stored in the bids.status column.
type BidStatus string

const (
	BidStatusPending    BidStatus = "pending"
	BidStatusInProgress BidStatus = "in-progress"
	BidStatusRejected   BidStatus = "rejected"
	BidStatusComplete   BidStatus = "complete"
)

// validTransitions lists every allowed (from -> to) status pair.
// "rejected" and "complete" are terminal.
var validTransitions = map[BidStatus][]BidStatus{
	BidStatusPending:    {BidStatusInProgress, BidStatusRejected},
	BidStatusInProgress: {BidStatusComplete},
}

// ParseBidStatus converts a raw string to a BidStatus, returning an error
// for unknown values.
func ParseBidStatus(s string) (BidStatus, error) {
	st := BidStatus(s)
	switch st {
	case BidStatusPending, BidStatusInProgress, BidStatusRejected, BidStatusComplete:
		return st, nil
	}
	return "", fmt.Errorf("unknown bid status %q", s)
}

// IsTransitionAllowed returns true when moving from -> to is permitted.
func IsTransitionAllowed(from, to BidStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
