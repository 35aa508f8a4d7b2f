// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/tipjar/internal/adapters/mq/queue"
	writer "github.com/okian/tipjar/internal/adapters/mq/worker"
	repository "github.com/okian/tipjar/internal/adapters/repository"
	"github.com/okian/tipjar/internal/domain/dedupe"
	"github.com/okian/tipjar/internal/domain/ledger"
	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/internal/domain/sentiment"
	"github.com/okian/tipjar/internal/domain/types"
	"github.com/okian/tipjar/pkg/logger"
	"github.com/okian/tipjar/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Service wires the record store, the sentiment classifier, the
// single-writer append queue and the duplicate-submission guard. It
// takes no session parameter; access control is its caller's concern.
type Service struct {
	mu sync.RWMutex

	store        repository.Store
	classifier   sentiment.Classifier
	deduper      dedupe.Deduper
	jobs         *jobqueue.InMemoryQueue
	writer       *writer.Writer
	writerCancel context.CancelFunc

	// Configuration
	dataDir     string
	staffPath   string
	tipsPath    string
	queueSize   int
	dedupeSize  int
	recentN     int
	feedLimit   int
	modelAPIKey string
	modelName   string

	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:    "data",
		queueSize:  1024,
		dedupeSize: 50000,
		recentN:    ledger.DefaultRecentFeedback,
		feedLimit:  ledger.DefaultFeedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		ropts := []repository.Option{repository.WithDataDir(s.dataDir)}
		if s.staffPath != "" {
			ropts = append(ropts, repository.WithStaffPath(s.staffPath))
		}
		if s.tipsPath != "" {
			ropts = append(ropts, repository.WithTipsPath(s.tipsPath))
		}
		s.store = repository.NewCSVStore(ropts...)
	}
	if s.classifier == nil {
		copts := []sentiment.Option{}
		if s.modelAPIKey != "" {
			copts = append(copts, sentiment.WithModelFactory(sentiment.GeminiFactory(s.modelAPIKey, s.modelName)))
		}
		s.classifier = sentiment.NewTwoTier(copts...)
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobs = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.writer = writer.NewWriter(s.jobs, s.store)

	// The writer runs on a context the service owns: an external
	// cancellation (signal context) must not stop it before Stop has
	// closed the queue and drained the accepted jobs.
	runCtx, cancel := context.WithCancel(context.Background())
	s.writerCancel = cancel
	go s.writer.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "tip service started",
		logger.String("dataDir", s.dataDir),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service, draining queued appends.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.jobs != nil {
		_ = s.jobs.Close()
	}
	if s.writer != nil {
		if err := s.writer.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "writer shutdown failed", logger.Error(err))
		}
	}
	if s.writerCancel != nil {
		s.writerCancel()
	}

	s.started = false
	s.logger.Info(ctx, "tip service stopped")
}

// SubmitTip classifies, dedupes and durably appends one tip. Storage
// write faults propagate: the caller must know the tip was not
// recorded. Classification faults never do.
func (s *Service) SubmitTip(ctx context.Context, req types.TipSubmission) (types.SubmitReceipt, error) {
	if req.StaffID == "" {
		return types.SubmitReceipt{}, ErrMissingStaffID
	}
	if req.Amount < 0 {
		return types.SubmitReceipt{}, ErrInvalidAmount
	}
	if req.Rating < 1 || req.Rating > 5 {
		return types.SubmitReceipt{}, ErrInvalidRating
	}

	tipID := req.TipID
	if tipID == "" {
		tipID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, tipID) {
		metrics.RecordTipDuplicate()
		return types.SubmitReceipt{Duplicate: true}, nil
	}

	label := s.classifier.Classify(ctx, req.Feedback)

	reply := make(chan jobqueue.Result, 1)
	ok := s.jobs.Enqueue(ctx, jobqueue.Job{
		TipID:     tipID,
		StaffID:   req.StaffID,
		Amount:    req.Amount,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		Sentiment: label,
		Reply:     reply,
	})
	if !ok {
		// Roll back the seen mark so the client may retry.
		s.deduper.Unrecord(ctx, tipID)
		return types.SubmitReceipt{}, ErrBackpressure
	}

	select {
	case res := <-reply:
		if res.Err != nil {
			s.deduper.Unrecord(ctx, tipID)
			return types.SubmitReceipt{}, res.Err
		}
		return types.SubmitReceipt{Record: res.Record}, nil
	case <-ctx.Done():
		// The append may still land; keep the seen mark so a retry of
		// the same tip id cannot double-append.
		return types.SubmitReceipt{}, ctx.Err()
	}
}

// Staff returns the staff reference table.
func (s *Service) Staff(ctx context.Context) ([]model.Staff, error) {
	return s.store.LoadStaff(ctx)
}

// Tips returns the full ledger in insertion order.
func (s *Service) Tips(ctx context.Context) ([]model.TipRecord, error) {
	return s.store.LoadTips(ctx)
}

// Summary recomputes one staff member's statistics from the ledger.
func (s *Service) Summary(ctx context.Context, staffID string, recentN int) (types.Summary, error) {
	if recentN <= 0 {
		recentN = s.recentN
	}
	tips, err := s.store.LoadTips(ctx)
	if err != nil {
		return types.Summary{}, err
	}
	return ledger.Summarize(tips, staffID, recentN), nil
}

// Leaderboard returns per-staff totals ordered by amount descending.
func (s *Service) Leaderboard(ctx context.Context) ([]types.StaffTotal, error) {
	tips, err := s.store.LoadTips(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.store.LoadStaff(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.AggregateByStaff(tips, staff), nil
}

// Feed returns the most recent records across all staff.
func (s *Service) Feed(ctx context.Context, limit int) ([]types.FeedEntry, error) {
	if limit <= 0 {
		limit = s.feedLimit
	}
	tips, err := s.store.LoadTips(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.store.LoadStaff(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.RecentFeed(tips, staff, limit), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		stats["queueLength"] = s.jobs.Len(ctx)
		stats["seenTips"] = s.deduper.Size()
		if tt, ok := s.classifier.(*sentiment.TwoTier); ok {
			stats["classifierTier"] = tt.TierState()
		}
		if tips, err := s.store.LoadTips(ctx); err == nil {
			stats["ledgerSize"] = len(tips)
		}
		if staff, err := s.store.LoadStaff(ctx); err == nil {
			stats["staffCount"] = len(staff)
		}
	}
	return stats
}
