package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/tipjar/internal/adapters/http/api"
	app "github.com/okian/tipjar/internal/app"
	"github.com/okian/tipjar/internal/config"
	"github.com/okian/tipjar/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TIPJAR_ADDR", ":8080")
			_ = os.Setenv("TIPJAR_QUEUE_SIZE", "1000")
			defer func() {
				_ = os.Unsetenv("TIPJAR_ADDR")
				_ = os.Unsetenv("TIPJAR_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When wiring the service and routes end to end", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			svc := app.New(
				app.WithDataDir(t.TempDir()),
				app.WithQueueSize(16),
			)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			sessions := api.NewSessionMiddleware(map[string]string{"tok": "mina:owner"})
			api.NewServer(svc, svc, sessions).Register(ctx, mux)

			convey.Convey("Then the health endpoint should respond", func() {
				req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the staff endpoint should degrade to an empty roster", func() {
				req := httptest.NewRequest(http.MethodGet, "/staff", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
