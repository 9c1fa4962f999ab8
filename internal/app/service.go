// Package service wires the frame intake, the tick loop and the job manager
// together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/chargegauge/internal/adapters/jobs"
	framequeue "github.com/okian/chargegauge/internal/adapters/mq/queue"
	tickworker "github.com/okian/chargegauge/internal/adapters/mq/worker"
	"github.com/okian/chargegauge/internal/adapters/surface"
	"github.com/okian/chargegauge/internal/domain/dedupe"
	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 4096
	defaultBoardWidth = 20
	stopTimeout       = 5 * time.Second
)

// Enqueued reports what happened to a submitted frame.
type Enqueued struct {
	FrameID   string `json:"frame_id"`
	Duplicate bool   `json:"duplicate"`
}

// Service implements the API dependencies for the gauge daemon.
type Service struct {
	mu sync.RWMutex

	manager    *Manager
	notifier   *fullNotifier
	downstream gauge.Notifier
	factory    gauge.SurfaceFactory
	store      gauge.PreferenceStore

	deduper    dedupe.Deduper
	frameQueue *framequeue.InMemoryQueue
	worker     *tickworker.TickWorker

	queueSize  int
	dedupeSize int
	boardWidth int
	initialJob string

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service over the job tables. store may be nil, in which
// case option edits are not persisted.
func New(tables *jobs.Table, store gauge.PreferenceStore, opts ...Option) *Service {
	s := &Service{
		store:      store,
		factory:    surface.ForType,
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		boardWidth: defaultBoardWidth,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.notifier = newFullNotifier(s.logger.Named("notifier"), s.downstream)
	s.manager = NewManager(tables,
		WithPreferences(store),
		WithManagerSurfaces(s.factory),
		WithNotifier(s.notifier),
		WithManagerLogger(s.logger.Named("manager")),
	)
	return s
}

// Start builds the initial job, then starts the frame queue and the tick loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting gauge service...")

	if s.initialJob != "" {
		if err := s.manager.SetJob(ctx, s.initialJob); err != nil {
			return fmt.Errorf("initial job: %w", err)
		}
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.frameQueue = framequeue.NewInMemoryQueue(
		framequeue.WithCapacity(s.queueSize),
	)

	// The tick loop outlives the start request; Stop ends it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.worker = tickworker.NewTickWorker(s.frameQueue, s, tickworker.WithLogger(s.logger.Named("worker")))
	s.worker.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "gauge service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("job", s.initialJob),
	)
	return nil
}

// Stop gracefully shuts down the queue and the tick loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping gauge service...")

	_ = s.frameQueue.Close()
	if err := s.worker.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "tick loop did not stop cleanly", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "gauge service stopped")
}

// Enqueue submits a telemetry frame for the tick loop. A frame without an
// id gets a fresh one. A frame whose id was already seen is reported as a
// duplicate and dropped.
func (s *Service) Enqueue(ctx context.Context, f trigger.Frame) (Enqueued, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Enqueued{}, ErrNotStarted
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	if s.SeenAndRecord(ctx, f.ID) {
		s.logger.Debug(ctx, "duplicate frame detected, skipping", logger.String("frameID", f.ID))
		return Enqueued{FrameID: f.ID, Duplicate: true}, nil
	}

	if !s.frameQueue.Enqueue(ctx, f) {
		// Forget the id so the feed can resend the frame.
		s.Unrecord(ctx, f.ID)
		return Enqueued{FrameID: f.ID}, ErrQueueFull
	}

	metrics.RecordFrameReceived()
	return Enqueued{FrameID: f.ID}, nil
}

// SeenAndRecord atomically checks if a frame id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordFrameDuplicate()
	}
	return seen
}

// Unrecord removes a frame id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Tick applies a snapshot to the current job. The tick loop calls it for
// every dequeued frame; it is also safe to call directly.
func (s *Service) Tick(ctx context.Context, snap trigger.Snapshot) error {
	states := s.manager.Tick(ctx, snap)
	s.logger.Debug(ctx, "tick", logger.Int("gauges", len(states)))
	return nil
}

// SetJob switches the current job.
func (s *Service) SetJob(ctx context.Context, id string) error {
	return s.manager.SetJob(ctx, id)
}

// ResetJob rebuilds the current job.
func (s *Service) ResetJob(ctx context.Context) error {
	return s.manager.ResetJob(ctx)
}

// Job returns the current job.
func (s *Service) Job() (jobs.Job, bool) {
	return s.manager.Job()
}

// Jobs lists the known job ids.
func (s *Service) Jobs() []string {
	return s.manager.Jobs()
}

// States returns the last emitted state of every gauge.
func (s *Service) States() []model.State {
	return s.manager.States()
}

// Gauges returns views of every gauge of the current job.
func (s *Service) Gauges() []GaugeView {
	return s.manager.Gauges()
}

// Gauge returns a view of one gauge.
func (s *Service) Gauge(name string) (GaugeView, error) {
	return s.manager.Gauge(name)
}

// ApplyOptions edits one gauge's options.
func (s *Service) ApplyOptions(ctx context.Context, name string, edit OptionEdit) (OptionResult, error) {
	return s.manager.ApplyOptions(ctx, name, edit)
}

// Board renders the current job's surfaces. A non-positive width uses the
// configured width.
func (s *Service) Board(width int) string {
	if width <= 0 {
		width = s.boardWidth
	}
	return s.manager.Board(width)
}

// RecentFull returns the latest full notifications.
func (s *Service) RecentFull() []FullEvent {
	return s.notifier.Recent()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"ticks":      s.manager.Ticks(),
		"rejected":   s.manager.Rejected(),
		"recentFull": s.notifier.Recent(),
	}
	if job, ok := s.manager.Job(); ok {
		stats["job"] = job.ID
		stats["gauges"] = len(s.manager.States())
	}

	if s.started {
		queueLen := s.frameQueue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["processed"] = s.worker.Processed()
		stats["failed"] = s.worker.Failed()
		stats["lastFrameID"] = s.worker.LastFrameID()
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
