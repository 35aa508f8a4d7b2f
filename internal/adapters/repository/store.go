// Package repository defines the record store interface and errors.
//
// The store owns two CSV resources: a read-only staff reference
// table and the append-only tip ledger. Reads never fail: a missing
// or unreadable resource degrades to the empty collection, since
// first-run and corrupt-history states must not break the read path.
// Only append faults surface, because a caller must know when a tip
// was not recorded.
package repository

import (
	"context"

	"github.com/okian/tipjar/internal/domain/model"
)

// Store provides access to the staff table and the tip ledger.
type Store interface {
	// LoadStaff returns the staff reference table. A missing or corrupt
	// backing file yields an empty slice and no error.
	LoadStaff(ctx context.Context) ([]model.Staff, error)

	// LoadTips returns all ledger records in insertion order. A missing
	// or corrupt backing file yields an empty slice and no error.
	LoadTips(ctx context.Context) ([]model.TipRecord, error)

	// AppendTip durably appends one record, assigning the timestamp
	// from the current UTC instant. The backing file is created with
	// its header row on first write. Prior rows are never touched.
	//
	// AppendTip is not safe for concurrent use; callers must serialize
	// appends (see the mq writer).
	AppendTip(ctx context.Context, staffID string, amount float64, rating int, feedback, sentiment string) (model.TipRecord, error)
}
