package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrAppend = errors.New("ledger append failed")
)
