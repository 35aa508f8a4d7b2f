// Package queue defines the contract for submitting append jobs to
// the ledger writer.
//
// Interleaved multi-row writes to an append-only text file are not
// safe, so every append flows through this bounded queue and is
// drained by a single writer. The queue is the serialization point;
// callers block on the job's reply channel for the append outcome.
package queue

import (
	"context"
	"sync"

	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/pkg/metrics"
)

// Default queue bound.
const defaultCapacity = 1024

// Result is the outcome of one append job.
type Result struct {
	Record model.TipRecord
	Err    error
}

// Job is one pending ledger append. Reply receives exactly one
// Result once the writer has processed the job.
type Job struct {
	TipID     string
	StaffID   string
	Amount    float64
	Rating    int
	Feedback  string
	Sentiment string
	Reply     chan Result
}

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a job. Returns false when the queue is full or
	// closed; the job was not accepted and will never be replied to.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel the writer drains. It is closed when
	// the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close stops intake. Already-queued jobs remain drainable.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue full: backpressure
	}
}

// Dequeue returns the writer-facing channel.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

// Len returns the current number of queued jobs. It is a pure read;
// the queue size gauge moves on the enqueue and dequeue paths only.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

// Close stops intake; the writer drains what remains.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
