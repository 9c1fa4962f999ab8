package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/chargegauge/internal/adapters/mq/queue"
	worker "github.com/okian/chargegauge/internal/adapters/mq/worker"
	"github.com/okian/chargegauge/internal/domain/trigger"
	logging "github.com/okian/chargegauge/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	frames chan queue.Frame
}

func newMockQueue() *mockQueue {
	return &mockQueue{frames: make(chan queue.Frame, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Frame { return mq.frames }

type recordingTicker struct {
	mu   sync.Mutex
	seen []string
	fail map[string]error
}

func (r *recordingTicker) Tick(_ context.Context, snap trigger.Snapshot) error {
	f := snap.(trigger.Frame)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, f.ID)
	return r.fail[f.ID]
}

func (r *recordingTicker) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestTickWorker(t *testing.T) {
	convey.Convey("Given a tick worker", t, func() {
		So := convey.So
		So(logging.Init(), convey.ShouldBeNil)

		q := newMockQueue()
		ticker := &recordingTicker{fail: map[string]error{"bad": errors.New("boom")}}
		w := worker.NewTickWorker(q, ticker, worker.WithName("test"), worker.WithLogger(logging.Get()))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)

		convey.Convey("When frames arrive", func() {
			q.frames <- queue.Frame{ID: "a"}
			q.frames <- queue.Frame{ID: "b"}
			q.frames <- queue.Frame{ID: "c"}

			convey.Convey("Then they are applied in order", func() {
				So(waitFor(func() bool { return w.Processed() == 3 }), convey.ShouldBeTrue)
				So(ticker.ids(), convey.ShouldResemble, []string{"a", "b", "c"})
				So(w.LastFrameID(), convey.ShouldEqual, "c")
			})
		})

		convey.Convey("When a tick fails", func() {
			q.frames <- queue.Frame{ID: "bad"}
			q.frames <- queue.Frame{ID: "good"}

			convey.Convey("Then the loop keeps going", func() {
				So(waitFor(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
				So(w.Failed(), convey.ShouldEqual, 1)
				So(w.LastFrameID(), convey.ShouldEqual, "good")
			})
		})

		convey.Convey("When shut down twice", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then both calls return cleanly", func() {
				So(w.Shutdown(sctx), convey.ShouldBeNil)
				So(w.Shutdown(sctx), convey.ShouldBeNil)
				_, open := <-w.Done()
				So(open, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the queue closes", func() {
			close(q.frames)

			convey.Convey("Then Run returns", func() {
				select {
				case <-w.Done():
				case <-time.After(2 * time.Second):
					t.Fatal("worker did not stop after queue close")
				}
			})
		})
	})
}

func TestTickWorkerWithRealQueue(t *testing.T) {
	convey.Convey("Given the in-memory queue feeding a worker", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		ticker := &recordingTicker{}
		w := worker.NewTickWorker(q, ticker)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)

		for _, id := range []string{"f1", "f2", "f3", "f4"} {
			convey.So(q.Enqueue(ctx, queue.Frame{ID: id}), convey.ShouldBeTrue)
		}

		convey.Convey("Then all frames are applied and shutdown is prompt", func() {
			convey.So(waitFor(func() bool { return w.Processed() == 4 }), convey.ShouldBeTrue)
			convey.So(ticker.ids(), convey.ShouldResemble, []string{"f1", "f2", "f3", "f4"})

			convey.So(q.Close(), convey.ShouldBeNil)
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}
