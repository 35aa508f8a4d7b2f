package worker_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/tipjar/internal/adapters/mq/queue"
	worker "github.com/okian/tipjar/internal/adapters/mq/worker"
	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// recordingStore captures appends in order and can be scripted to fail.
type recordingStore struct {
	mu       sync.Mutex
	appended []model.TipRecord
	failNext bool
}

func (s *recordingStore) LoadStaff(_ context.Context) ([]model.Staff, error) {
	return []model.Staff{}, nil
}

func (s *recordingStore) LoadTips(_ context.Context) ([]model.TipRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TipRecord, len(s.appended))
	copy(out, s.appended)
	return out, nil
}

func (s *recordingStore) AppendTip(_ context.Context, staffID string, amount float64, rating int, feedback, sentiment string) (model.TipRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return model.TipRecord{}, errors.New("disk full")
	}
	rec := model.TipRecord{
		Timestamp: model.FormatTimestamp(time.Now()),
		StaffID:   staffID,
		Amount:    amount,
		Rating:    rating,
		Feedback:  feedback,
		Sentiment: sentiment,
	}
	s.appended = append(s.appended, rec)
	return rec, nil
}

func TestWriterProcessesJobs(t *testing.T) {
	Convey("Given a running writer", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		store := &recordingStore{}
		w := worker.NewWriter(q, store)

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		Reset(func() {
			cancel()
		})

		Convey("When a job is enqueued", func() {
			reply := make(chan queue.Result, 1)
			ok := q.Enqueue(ctx, queue.Job{
				TipID:     "tip-1",
				StaffID:   "W001",
				Amount:    5.50,
				Rating:    5,
				Feedback:  "great",
				Sentiment: "POSITIVE",
				Reply:     reply,
			})

			Convey("Then the append outcome arrives on the reply channel", func() {
				So(ok, ShouldBeTrue)
				res := <-reply
				So(res.Err, ShouldBeNil)
				So(res.Record.StaffID, ShouldEqual, "W001")
				So(res.Record.Amount, ShouldEqual, 5.50)
				So(res.Record.Timestamp, ShouldNotBeEmpty)
			})
		})

		Convey("When the store fails an append", func() {
			store.failNext = true
			reply := make(chan queue.Result, 1)
			So(q.Enqueue(ctx, queue.Job{TipID: "tip-2", StaffID: "W002", Reply: reply}), ShouldBeTrue)

			Convey("Then the fault propagates to the submitter", func() {
				res := <-reply
				So(res.Err, ShouldNotBeNil)
			})
		})

		Convey("When many jobs race in from several goroutines", func() {
			const jobs = 20
			replies := make([]chan queue.Result, jobs)
			var wg sync.WaitGroup
			for i := 0; i < jobs; i++ {
				replies[i] = make(chan queue.Result, 1)
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					q.Enqueue(ctx, queue.Job{StaffID: "W001", Amount: 1, Rating: 5, Reply: replies[i]})
				}(i)
			}
			wg.Wait()
			for i := 0; i < jobs; i++ {
				<-replies[i]
			}

			Convey("Then every append landed and nothing interleaved", func() {
				tips, _ := store.LoadTips(ctx)
				So(tips, ShouldHaveLength, jobs)
			})
		})
	})
}

func TestWriterShutdownDrains(t *testing.T) {
	Convey("Given a writer with queued jobs", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		store := &recordingStore{}
		w := worker.NewWriter(q, store)
		ctx := context.Background()

		replies := make([]chan queue.Result, 3)
		for i := range replies {
			replies[i] = make(chan queue.Result, 1)
			So(q.Enqueue(ctx, queue.Job{StaffID: "W001", Amount: 1, Rating: 5, Reply: replies[i]}), ShouldBeTrue)
		}

		go w.Run(ctx)

		Convey("When shutting down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			Convey("Then queued jobs were drained before stopping", func() {
				So(err, ShouldBeNil)
				for i := range replies {
					res := <-replies[i]
					So(res.Err, ShouldBeNil)
				}
				tips, _ := store.LoadTips(ctx)
				So(tips, ShouldHaveLength, 3)
			})
		})
	})
}

func TestWriterDrainsOnCancel(t *testing.T) {
	Convey("Given a writer whose run context gets canceled with jobs queued", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		store := &recordingStore{}
		w := worker.NewWriter(q, store)

		ctx, cancel := context.WithCancel(context.Background())
		replies := make([]chan queue.Result, 5)
		for i := range replies {
			replies[i] = make(chan queue.Result, 1)
			So(q.Enqueue(ctx, queue.Job{StaffID: "W001", Amount: 1, Rating: 5, Reply: replies[i]}), ShouldBeTrue)
		}

		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()
		cancel()

		Convey("Then every accepted job still gets a reply", func() {
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("writer did not stop after cancel")
			}
			for i := range replies {
				select {
				case res := <-replies[i]:
					So(res.Err, ShouldBeNil)
				default:
					t.Fatalf("job %d dropped without a reply", i)
				}
			}
			tips, _ := store.LoadTips(context.Background())
			So(tips, ShouldHaveLength, len(replies))
		})
	})
}
