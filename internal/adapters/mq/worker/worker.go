// Package worker runs the single ledger writer.
//
// Exactly one Writer drains the append queue; it is the only
// goroutine that touches the ledger file, which keeps the append-only
// discipline intact under concurrent submissions. A crash between
// appends loses at most the in-flight job, never a committed row.
package worker

import (
	"context"
	"fmt"

	"github.com/okian/tipjar/internal/adapters/mq/queue"
	"github.com/okian/tipjar/internal/adapters/repository"
	"github.com/okian/tipjar/pkg/logger"
	"github.com/okian/tipjar/pkg/metrics"
)

// Queue defines how the writer receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
	Len(ctx context.Context) int
}

// Writer processes append jobs sequentially against the store.
type Writer struct {
	queue Queue
	store repository.Store

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWriter creates the writer with configuration options.
func NewWriter(q Queue, store repository.Store, opts ...Option) *Writer {
	w := &Writer{
		queue:    q,
		store:    store,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Named("writer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the queue until ctx is canceled, the queue closes, or
// Shutdown is called. Every accepted job gets exactly one reply:
// cancellation and shutdown both drain what is already queued before
// returning, so an accepted submission is never left blocked on its
// reply channel.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			w.drain(ctx, jobs)
			return
		case <-w.shutdown:
			w.drain(ctx, jobs)
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
			metrics.UpdateQueueSize(w.queue.Len(ctx))
		}
	}
}

// drain processes jobs already accepted into the queue without
// blocking for new ones.
func (w *Writer) drain(ctx context.Context, jobs <-chan queue.Job) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
			metrics.UpdateQueueSize(w.queue.Len(ctx))
		default:
			return
		}
	}
}

// Shutdown stops the writer after draining queued jobs.
func (w *Writer) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "writer shutdown timed out")
		return fmt.Errorf("writer shutdown: %w", ctx.Err())
	}
}

// process performs one append and replies with the outcome.
func (w *Writer) process(ctx context.Context, job queue.Job) {
	rec, err := w.store.AppendTip(ctx, job.StaffID, job.Amount, job.Rating, job.Feedback, job.Sentiment)
	if err != nil {
		w.logger.Error(ctx, "ledger append failed",
			logger.String("tipID", job.TipID),
			logger.String("staffID", job.StaffID),
			logger.Error(err),
		)
	}
	if job.Reply != nil {
		job.Reply <- queue.Result{Record: rec, Err: err}
	}
}
