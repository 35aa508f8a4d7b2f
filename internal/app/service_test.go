package service_test

import (
	"context"
	"os"
	"testing"

	service "github.com/okian/tipjar/internal/app"
	"github.com/okian/tipjar/internal/domain/types"
	"github.com/okian/tipjar/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func startService(t *testing.T, opts ...service.Option) (*service.Service, context.Context) {
	t.Helper()
	opts = append([]service.Option{service.WithDataDir(t.TempDir())}, opts...)
	svc := service.New(opts...)
	ctx := context.Background()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc, ctx
}

func TestSubmitTip(t *testing.T) {
	Convey("Given a started service on an empty data dir", t, func() {
		svc, ctx := startService(t)

		Convey("When submitting a valid tip", func() {
			res, err := svc.SubmitTip(ctx, types.TipSubmission{
				StaffID:  "W001",
				Amount:   5.00,
				Rating:   5,
				Feedback: "The food was great and service was fast",
			})

			Convey("Then the record is persisted with a server timestamp", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Record.Timestamp, ShouldNotBeEmpty)
				So(res.Record.StaffID, ShouldEqual, "W001")

				tips, terr := svc.Tips(ctx)
				So(terr, ShouldBeNil)
				So(tips, ShouldHaveLength, 1)
			})

			Convey("And the feedback was labeled by the rule tier", func() {
				So(res.Record.Sentiment, ShouldStartWith, "POS")
			})
		})

		Convey("When submitting with a known tip id twice", func() {
			req := types.TipSubmission{TipID: "tip-once", StaffID: "W001", Amount: 1, Rating: 4}
			first, err1 := svc.SubmitTip(ctx, req)
			second, err2 := svc.SubmitTip(ctx, req)

			Convey("Then the second submission acks as duplicate without appending", func() {
				So(err1, ShouldBeNil)
				So(first.Duplicate, ShouldBeFalse)
				So(err2, ShouldBeNil)
				So(second.Duplicate, ShouldBeTrue)

				tips, _ := svc.Tips(ctx)
				So(tips, ShouldHaveLength, 1)
			})
		})

		Convey("When submitting invalid fields", func() {
			_, errAmount := svc.SubmitTip(ctx, types.TipSubmission{StaffID: "W001", Amount: -1, Rating: 3})
			_, errRating := svc.SubmitTip(ctx, types.TipSubmission{StaffID: "W001", Amount: 1, Rating: 6})
			_, errStaff := svc.SubmitTip(ctx, types.TipSubmission{Amount: 1, Rating: 3})

			Convey("Then validation errors come back unwrapped", func() {
				So(errAmount, ShouldEqual, service.ErrInvalidAmount)
				So(errRating, ShouldEqual, service.ErrInvalidRating)
				So(errStaff, ShouldEqual, service.ErrMissingStaffID)
			})
		})
	})
}

func TestReadViews(t *testing.T) {
	Convey("Given a service with a few recorded tips", t, func() {
		svc, ctx := startService(t)

		seed := []types.TipSubmission{
			{StaffID: "W001", Amount: 10.005, Rating: 5, Feedback: "excellent"},
			{StaffID: "W002", Amount: 20.00, Rating: 3, Feedback: "slow"},
			{StaffID: "W001", Amount: 2.50, Rating: 4},
		}
		for _, req := range seed {
			_, err := svc.SubmitTip(ctx, req)
			So(err, ShouldBeNil)
		}

		Convey("When asking for a staff summary", func() {
			s, err := svc.Summary(ctx, "W001", 0)

			Convey("Then totals reflect the decimal sum of that staff's tips", func() {
				So(err, ShouldBeNil)
				So(s.TotalAmount, ShouldEqual, 12.51)
				So(s.AverageRating, ShouldEqual, 4.5)
				So(s.Count, ShouldEqual, 2)
			})
		})

		Convey("When asking for the leaderboard", func() {
			rows, err := svc.Leaderboard(ctx)

			Convey("Then rows are ordered by total descending", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].StaffID, ShouldEqual, "W002")
				So(rows[1].StaffID, ShouldEqual, "W001")
			})
		})

		Convey("When asking for the feed", func() {
			feed, err := svc.Feed(ctx, 2)

			Convey("Then it is truncated and most-recent-first", func() {
				So(err, ShouldBeNil)
				So(feed, ShouldHaveLength, 2)
			})
		})

		Convey("When reading the stats", func() {
			stats := svc.GetStats()

			So(stats["started"], ShouldBeTrue)
			So(stats["ledgerSize"], ShouldEqual, 3)
			So(stats["classifierTier"], ShouldEqual, "unavailable")
		})
	})

	Convey("Given a service on an empty data dir", t, func() {
		svc, ctx := startService(t)

		Convey("When reading before any tip exists", func() {
			staff, serr := svc.Staff(ctx)
			tips, terr := svc.Tips(ctx)
			summary, merr := svc.Summary(ctx, "W001", 0)

			Convey("Then every read degrades to empty, never errors", func() {
				So(serr, ShouldBeNil)
				So(staff, ShouldBeEmpty)
				So(terr, ShouldBeNil)
				So(tips, ShouldBeEmpty)
				So(merr, ShouldBeNil)
				So(summary.TotalAmount, ShouldEqual, 0.0)
				So(summary.Count, ShouldEqual, 0)
			})
		})
	})
}
