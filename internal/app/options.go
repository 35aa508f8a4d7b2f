package service

import (
	repository "github.com/okian/tipjar/internal/adapters/repository"
	"github.com/okian/tipjar/internal/domain/sentiment"
	"github.com/okian/tipjar/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory holding the CSV files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStaffPath overrides the staff roster file path.
func WithStaffPath(path string) Option {
	return func(s *Service) {
		s.staffPath = path
	}
}

// WithTipsPath overrides the tip ledger file path.
func WithTipsPath(path string) Option {
	return func(s *Service) {
		s.tipsPath = path
	}
}

// WithQueueSize bounds the append queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the duplicate-submission guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRecentFeedback sets the default recent-feedback window size.
func WithRecentFeedback(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentN = n
		}
	}
}

// WithFeedLimit sets the default global feed size.
func WithFeedLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.feedLimit = n
		}
	}
}

// WithModel configures the primary classifier tier. An empty key
// leaves the service on the rule tier.
func WithModel(apiKey, modelName string) Option {
	return func(s *Service) {
		s.modelAPIKey = apiKey
		s.modelName = modelName
	}
}

// WithStore injects a store implementation (tests).
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClassifier injects a classifier implementation (tests).
func WithClassifier(c sentiment.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
