package domain

import "errors"

var (
	// ErrDuplicateBid is returned when a bidder already has a bid on the job
	ErrDuplicateBid = errors.New("bid already placed for this job")

	// ErrJobNotFound is returned when a bid references a job that does not exist
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a bid status change is not allowed
	// by the status graph
	ErrInvalidTransition = errors.New("bid status transition not allowed")
)
