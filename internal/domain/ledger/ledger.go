// Package ledger computes derived views over tip records.
//
// Every function here is a pure function of its inputs: no hidden
// state, deterministic output, and a zero-value result for empty
// input instead of an error. The ledger itself guarantees nothing
// about record order at rest, so any time ordering is applied here.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/internal/domain/types"
)

// Default view sizes.
const (
	DefaultRecentFeedback = 10
	DefaultFeedLimit      = 25
)

// moneyPlaces is the scale of all monetary totals.
const moneyPlaces = 2

// roundAmount sums amounts exactly and rounds to two places, half
// away from zero. Summation happens in decimal space so that e.g.
// 10.005 + 2.50 lands on 12.51 regardless of platform.
func roundAmount(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Round(moneyPlaces).Float64()
	return f
}

// byTimestampDesc sorts records most-recent-first. The comparison is
// lexicographic on the fixed-width UTC timestamp form, which agrees
// with chronological order. The sort is stable: records with equal
// timestamps keep their insertion order.
func byTimestampDesc(records []model.TipRecord) []model.TipRecord {
	out := make([]model.TipRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Summarize computes the statistics for one staff member from the
// full record set. An empty filtered set yields the zero summary
// (0.0 totals, never NaN) so display layers need no special casing.
func Summarize(records []model.TipRecord, staffID string, recentN int) types.Summary {
	if recentN <= 0 {
		recentN = DefaultRecentFeedback
	}

	sub := make([]model.TipRecord, 0, len(records))
	for _, r := range records {
		if r.StaffID == staffID {
			sub = append(sub, r)
		}
	}

	s := types.Summary{
		StaffID:        staffID,
		RecentFeedback: []model.TipRecord{},
	}
	if len(sub) == 0 {
		return s
	}

	amounts := make([]float64, len(sub))
	ratingSum := 0
	for i, r := range sub {
		amounts[i] = r.Amount
		ratingSum += r.Rating
	}
	s.TotalAmount = roundAmount(amounts)
	s.AverageRating = float64(ratingSum) / float64(len(sub))
	s.Count = len(sub)

	recent := byTimestampDesc(sub)
	if len(recent) > recentN {
		recent = recent[:recentN]
	}
	s.RecentFeedback = recent
	return s
}

// AggregateByStaff groups records by staff id and joins the group
// totals to staff names. Ids missing from the staff table keep an
// empty name rather than being dropped. Rows are ordered by total
// amount descending; ties keep first-seen group order (stable sort).
func AggregateByStaff(records []model.TipRecord, staff []model.Staff) []types.StaffTotal {
	names := nameIndex(staff)

	order := make([]string, 0)
	amounts := make(map[string][]float64)
	ratings := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range records {
		if _, seen := counts[r.StaffID]; !seen {
			order = append(order, r.StaffID)
		}
		amounts[r.StaffID] = append(amounts[r.StaffID], r.Amount)
		ratings[r.StaffID] += r.Rating
		counts[r.StaffID]++
	}

	rows := make([]types.StaffTotal, 0, len(order))
	for _, id := range order {
		rows = append(rows, types.StaffTotal{
			StaffID:       id,
			StaffName:     names[id],
			TotalAmount:   roundAmount(amounts[id]),
			AverageRating: float64(ratings[id]) / float64(counts[id]),
			Count:         counts[id],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalAmount > rows[j].TotalAmount
	})
	return rows
}

// RecentFeed returns all records most-recent-first, truncated to
// limit, each annotated with the resolved staff name (empty when the
// id is unknown).
func RecentFeed(records []model.TipRecord, staff []model.Staff, limit int) []types.FeedEntry {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	names := nameIndex(staff)

	recent := byTimestampDesc(records)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	feed := make([]types.FeedEntry, len(recent))
	for i, r := range recent {
		feed[i] = types.FeedEntry{TipRecord: r, StaffName: names[r.StaffID]}
	}
	return feed
}

func nameIndex(staff []model.Staff) map[string]string {
	names := make(map[string]string, len(staff))
	for _, s := range staff {
		names[s.StaffID] = s.Name
	}
	return names
}
