// Package types contains common types used across the application
package types

import "github.com/okian/tipjar/internal/domain/model"

// Summary holds derived statistics for one staff member. It is
// recomputed from the ledger on every read and never persisted.
type Summary struct {
	StaffID        string            `json:"staff_id"`
	TotalAmount    float64           `json:"total_amount"` // rounded to 2 places
	AverageRating  float64           `json:"average_rating"`
	Count          int               `json:"count"`
	RecentFeedback []model.TipRecord `json:"recent_feedback"` // most recent first
}

// StaffTotal is one leaderboard row: a staff member's ledger totals
// joined to their name. Unknown staff ids keep an empty name.
type StaffTotal struct {
	StaffID       string  `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	TotalAmount   float64 `json:"total_amount"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// FeedEntry is one row of the global recent-feedback feed: a ledger
// record annotated with the resolved staff name.
type FeedEntry struct {
	model.TipRecord
	StaffName string `json:"staff_name"`
}

// TipSubmission carries one tip submission into the core. TipID is an
// optional client idempotency key; the server assigns one otherwise.
type TipSubmission struct {
	TipID    string  `json:"tip_id"`
	StaffID  string  `json:"staff_id"`
	Amount   float64 `json:"amount"`
	Rating   int     `json:"rating"`
	Feedback string  `json:"feedback"`
}

// SubmitReceipt is the outcome of a submission. Duplicate marks a
// replayed tip id: acknowledged, nothing appended.
type SubmitReceipt struct {
	Record    model.TipRecord `json:"record"`
	Duplicate bool            `json:"duplicate"`
}
