package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/pkg/metrics"
)

// Default file layout under the data directory.
const (
	defaultDataDir   = "data"
	defaultStaffFile = "staff.csv"
	defaultTipsFile  = "tips.csv"
)

var tipsHeader = []string{"timestamp", "staff_id", "amount", "rating", "feedback", "sentiment"}

// CSVStore implements Store on a pair of CSV files.
type CSVStore struct {
	staffPath string
	tipsPath  string
	now       func() time.Time
}

// NewCSVStore creates a store with configuration options.
func NewCSVStore(opts ...Option) *CSVStore {
	s := &CSVStore{
		staffPath: filepath.Join(defaultDataDir, defaultStaffFile),
		tipsPath:  filepath.Join(defaultDataDir, defaultTipsFile),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadStaff reads the staff reference table.
func (s *CSVStore) LoadStaff(_ context.Context) ([]model.Staff, error) {
	rows, header := readCSV(s.staffPath)
	if rows == nil {
		return []model.Staff{}, nil
	}

	cols := columnIndex(header)
	staff := make([]model.Staff, 0, len(rows))
	for _, row := range rows {
		staff = append(staff, model.Staff{
			StaffID: cell(row, cols, "staff_id"),
			Name:    cell(row, cols, "name"),
			Phone:   cell(row, cols, "phone"),
		})
	}
	return staff, nil
}

// LoadTips reads the ledger in insertion order.
func (s *CSVStore) LoadTips(_ context.Context) ([]model.TipRecord, error) {
	rows, header := readCSV(s.tipsPath)
	if rows == nil {
		return []model.TipRecord{}, nil
	}

	cols := columnIndex(header)
	tips := make([]model.TipRecord, 0, len(rows))
	for _, row := range rows {
		tips = append(tips, model.TipRecord{
			Timestamp: cell(row, cols, "timestamp"),
			StaffID:   cell(row, cols, "staff_id"),
			Amount:    coerceFloat(cell(row, cols, "amount")),
			Rating:    coerceInt(cell(row, cols, "rating")),
			Feedback:  cell(row, cols, "feedback"),
			Sentiment: cell(row, cols, "sentiment"),
		})
	}
	metrics.UpdateLedgerSize(len(tips))
	return tips, nil
}

// AppendTip appends one row, creating the file with its header first
// if needed. The write is a single row flushed and synced before
// return; a fault leaves no partial record considered committed.
func (s *CSVStore) AppendTip(_ context.Context, staffID string, amount float64, rating int, feedback, sentiment string) (model.TipRecord, error) {
	rec := model.TipRecord{
		Timestamp: model.FormatTimestamp(s.now()),
		StaffID:   staffID,
		Amount:    amount,
		Rating:    rating,
		Feedback:  strings.TrimSpace(feedback),
		Sentiment: sentiment,
	}

	if dir := filepath.Dir(s.tipsPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.RecordAppendError()
			return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
		}
	}

	writeHeader := false
	if info, err := os.Stat(s.tipsPath); errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	f, err := os.OpenFile(s.tipsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		metrics.RecordAppendError()
		return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(tipsHeader); err != nil {
			metrics.RecordAppendError()
			return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
		}
	}
	row := []string{
		rec.Timestamp,
		rec.StaffID,
		strconv.FormatFloat(rec.Amount, 'f', -1, 64),
		strconv.Itoa(rec.Rating),
		rec.Feedback,
		rec.Sentiment,
	}
	if err := w.Write(row); err != nil {
		metrics.RecordAppendError()
		return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		metrics.RecordAppendError()
		return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
	}
	if err := f.Sync(); err != nil {
		metrics.RecordAppendError()
		return model.TipRecord{}, fmt.Errorf("%w: %w", ErrAppend, err)
	}

	metrics.RecordTipAppended()
	return rec, nil
}

// readCSV returns data rows and the header row, or (nil, nil) when
// the resource is missing, empty, or unparseable. Whole-resource
// parse failures degrade uniformly with the missing-file case.
func readCSV(path string) ([][]string, []string) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows from older schema versions may be short
	all, err := r.ReadAll()
	if err != nil || len(all) == 0 {
		return nil, nil
	}
	return all[1:], all[0]
}

// columnIndex maps header names to positions. Absent columns simply
// never resolve, which yields the zero value for every row.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// coerceFloat applies the availability-over-validation policy:
// non-numeric amounts become 0.0 so corrupt history stays readable.
func coerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}

func coerceInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		// Ratings occasionally arrive as "4.0" from older exports.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return v
}
