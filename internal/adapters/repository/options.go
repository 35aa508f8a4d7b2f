// Package repository defines the record store interface and errors.
package repository

import (
	"path/filepath"
	"time"
)

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithDataDir places both CSV files under dir, keeping the default
// file names.
func WithDataDir(dir string) Option {
	return func(s *CSVStore) {
		if dir != "" {
			s.staffPath = filepath.Join(dir, defaultStaffFile)
			s.tipsPath = filepath.Join(dir, defaultTipsFile)
		}
	}
}

// WithStaffPath sets the staff table file path explicitly.
func WithStaffPath(path string) Option {
	return func(s *CSVStore) {
		if path != "" {
			s.staffPath = path
		}
	}
}

// WithTipsPath sets the ledger file path explicitly.
func WithTipsPath(path string) Option {
	return func(s *CSVStore) {
		if path != "" {
			s.tipsPath = path
		}
	}
}

// WithClock overrides the timestamp source. Tests use this to pin
// append timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *CSVStore) {
		if now != nil {
			s.now = now
		}
	}
}
