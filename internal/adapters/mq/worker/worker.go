// Package worker drains the frame queue and applies each frame to the active gauges.
//
// There is exactly one tick loop per queue: gauges keep edge-triggered state
// between ticks, so frames must be applied one at a time and in arrival order.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

// Frame is what the loop reads off the queue.
type Frame = trigger.Frame

// Ticker applies one snapshot to every active gauge.
type Ticker interface {
	Tick(ctx context.Context, snap trigger.Snapshot) error
}

// Queue defines how the loop receives frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Frame
}

// Worker processes frames using the provided interfaces.
type Worker interface {
	// Run starts the loop until ctx is canceled, Shutdown is called or the
	// queue is closed.
	Run(ctx context.Context)

	// Shutdown gracefully stops the loop.
	Shutdown(ctx context.Context) error
}

// TickWorker implements Worker.
type TickWorker struct {
	queue  Queue
	ticker Ticker
	name   string

	processed atomic.Int64
	failed    atomic.Int64
	lastID    atomic.Value

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewTickWorker creates the tick loop with configuration options.
func NewTickWorker(queue Queue, ticker Ticker, opts ...Option) *TickWorker {
	w := &TickWorker{
		queue:    queue,
		ticker:   ticker,
		name:     "tick-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "tick-worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *TickWorker) Run(ctx context.Context) {
	defer close(w.done)

	frames := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := w.processFrame(ctx, f); err != nil {
				w.logger.Error(ctx, "error applying frame", logger.Error(err))
			}
		}
	}
}

// Start runs the loop on its own goroutine.
func (w *TickWorker) Start(ctx context.Context) {
	go w.Run(ctx)
}

// Shutdown gracefully stops the worker. Calling it more than once is safe.
func (w *TickWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *TickWorker) Done() <-chan struct{} {
	return w.done
}

// Processed returns the number of frames applied so far.
func (w *TickWorker) Processed() int64 {
	return w.processed.Load()
}

// Failed returns the number of frames whose tick returned an error.
func (w *TickWorker) Failed() int64 {
	return w.failed.Load()
}

// LastFrameID returns the id of the most recently applied frame.
func (w *TickWorker) LastFrameID() string {
	id, _ := w.lastID.Load().(string)
	return id
}

func (w *TickWorker) processFrame(ctx context.Context, f Frame) error {
	start := time.Now()
	err := w.ticker.Tick(ctx, f)
	metrics.RecordTick(time.Since(start))

	if err != nil {
		w.failed.Add(1)
		metrics.RecordErrorByComponent("worker", "tick_error")
		return fmt.Errorf("frame %s: %w", f.ID, err)
	}

	w.processed.Add(1)
	w.lastID.Store(f.ID)
	w.logger.Debug(ctx, "frame applied",
		logger.String("frameID", f.ID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
