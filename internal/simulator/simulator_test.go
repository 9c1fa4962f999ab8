package simulator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/chargegauge/internal/adapters/http/api"
	"github.com/okian/chargegauge/internal/adapters/jobs"
	service "github.com/okian/chargegauge/internal/app"
	"github.com/okian/chargegauge/internal/simulator"
	"github.com/okian/chargegauge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithLevel("warn")); err != nil {
		panic(err)
	}
}

func startDaemon(t *testing.T) (*service.Service, *httptest.Server) {
	t.Helper()
	tables, err := jobs.Default()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	svc := service.New(tables, nil)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return svc, httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a daemon behind an HTTP server", t, func() {
		svc, srv := startDaemon(t)
		defer srv.Close()
		defer svc.Stop()

		Convey("When the built-in script is replayed as fast as possible", func() {
			stats, err := simulator.Run(context.Background(), &simulator.Config{
				BaseURL: srv.URL,
				Step:    500 * time.Millisecond,
				Speed:   0,
			})

			Convey("Then every frame is accepted in order", func() {
				So(err, ShouldBeNil)
				So(stats.FramesSent, ShouldBeGreaterThan, 200)
				So(stats.Accepted, ShouldEqual, stats.FramesSent)
				So(stats.Failed, ShouldEqual, 0)

				job, ok := svc.Job()
				So(ok, ShouldBeTrue)
				So(job.ID, ShouldEqual, "BLM")
			})

			Convey("And the gauge reports full once the recast ends", func() {
				deadline := time.Now().Add(3 * time.Second)
				for time.Now().Before(deadline) && len(svc.RecentFull()) == 0 {
					time.Sleep(10 * time.Millisecond)
				}
				recent := svc.RecentFull()
				So(len(recent), ShouldEqual, 1)
				So(recent[0].Gauge, ShouldEqual, "Triplecast")
			})
		})

		Convey("When the script selects an unknown job", func() {
			path := filepath.Join(t.TempDir(), "bad.toml")
			So(os.WriteFile(path, []byte("job = \"XYZ\"\n"), 0o600), ShouldBeNil)
			_, err := simulator.Run(context.Background(), &simulator.Config{BaseURL: srv.URL, Script: path})

			Convey("Then the run fails before posting frames", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "select job XYZ")
			})
		})
	})

	Convey("Given no daemon", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("When a replay starts", func() {
			_, err := simulator.Run(context.Background(), &simulator.Config{BaseURL: srv.URL, Timeout: time.Second})

			Convey("Then the health check fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "health check")
			})
		})
	})
}
