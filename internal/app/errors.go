package service

import "errors"

// Sentinel kinds for submission errors.
var (
	ErrMissingStaffID = errors.New("missing staff id")
	ErrInvalidAmount  = errors.New("amount must be non-negative")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrBackpressure   = errors.New("append queue full")
)
