// Package model contains domain models passed between layers.
package model

import "time"

// TimestampLayout is the wire and storage form of tip timestamps:
// RFC 3339 UTC with second precision and an explicit Z marker. The
// form is fixed-width and zero-padded, so lexicographic comparison
// of two timestamps agrees with chronological order.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Staff is one row of the read-only staff reference table.
// Rows are provisioned externally; this service never mutates them.
type Staff struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// TipRecord is one immutable row of the tip ledger. Records are
// appended exactly once and never updated or deleted.
//
// StaffID is a soft reference: the ledger does not require the id to
// exist in the staff table, and aggregation tolerates unknown ids.
type TipRecord struct {
	Timestamp string  `json:"timestamp"` // TimestampLayout, assigned by the store
	StaffID   string  `json:"staff_id"`
	Amount    float64 `json:"amount"` // non-negative; corrupt cells coerce to 0
	Rating    int     `json:"rating"` // 1..5; corrupt cells coerce to 0
	Feedback  string  `json:"feedback"`
	Sentiment string  `json:"sentiment"` // opaque label; compare by POS/NEG prefix only
}

// FormatTimestamp renders t in the ledger timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
