package queue_test

import (
	"context"
	"testing"

	queue "github.com/okian/tipjar/internal/adapters/mq/queue"
	"github.com/okian/tipjar/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given a bounded append queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			ok1 := q.Enqueue(ctx, queue.Job{TipID: "a", StaffID: "W001"})
			ok2 := q.Enqueue(ctx, queue.Job{TipID: "b", StaffID: "W002"})

			Convey("Then jobs are accepted and counted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And dequeue yields them in order", func() {
				jobs := q.Dequeue(ctx)
				So((<-jobs).TipID, ShouldEqual, "a")
				So((<-jobs).TipID, ShouldEqual, "b")
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, queue.Job{TipID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{TipID: "b"}), ShouldBeTrue)

			Convey("Then further enqueues fail fast", func() {
				So(q.Enqueue(ctx, queue.Job{TipID: "c"}), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then intake stops but draining still works", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{TipID: "late"}), ShouldBeFalse)

				_, open := <-q.Dequeue(ctx)
				So(open, ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When enqueueing with a canceled context on a full queue", func() {
			So(q.Enqueue(ctx, queue.Job{TipID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{TipID: "b"}), ShouldBeTrue)
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			So(q.Enqueue(canceled, queue.Job{TipID: "c"}), ShouldBeFalse)
		})
	})
}

func queueSizeGauge(t *testing.T) float64 {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "tipjar_ledger_queue_size" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("queue size gauge not registered")
	return 0
}

func TestLenIsReadOnly(t *testing.T) {
	Convey("Given a queue with buffered jobs", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Job{TipID: "a"}), ShouldBeTrue)
		So(q.Enqueue(ctx, queue.Job{TipID: "b"}), ShouldBeTrue)

		gaugeBefore := queueSizeGauge(t)
		So(gaugeBefore, ShouldEqual, 2)

		Convey("When a job is taken off the channel and Len is read", func() {
			<-q.Dequeue(ctx)
			n := q.Len(ctx)

			Convey("Then Len reports the live count without moving the gauge", func() {
				So(n, ShouldEqual, 1)
				So(queueSizeGauge(t), ShouldEqual, gaugeBefore)
			})
		})
	})
}
