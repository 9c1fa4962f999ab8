package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

const recentFullLimit = 32

// FullEvent is one fired full notification.
type FullEvent struct {
	Gauge string    `json:"gauge"`
	At    time.Time `json:"at"`
}

// fullNotifier logs and counts full notifications and keeps the most
// recent ones for GET /stats. A downstream notifier, such as a sound
// player, may be chained after it.
type fullNotifier struct {
	mu     sync.Mutex
	recent []FullEvent
	next   gauge.Notifier
	now    func() time.Time
	logger logger.Logger
}

var _ gauge.Notifier = (*fullNotifier)(nil)

func newFullNotifier(log logger.Logger, next gauge.Notifier) *fullNotifier {
	return &fullNotifier{next: next, now: time.Now, logger: log}
}

func (n *fullNotifier) GaugeFull(ctx context.Context, name string) {
	metrics.RecordGaugeFull(name)
	n.logger.Info(ctx, "gauge full", logger.String("gauge", name))

	n.mu.Lock()
	n.recent = append(n.recent, FullEvent{Gauge: name, At: n.now().UTC()})
	if len(n.recent) > recentFullLimit {
		n.recent = n.recent[len(n.recent)-recentFullLimit:]
	}
	n.mu.Unlock()

	if n.next != nil {
		n.next.GaugeFull(ctx, name)
	}
}

// Recent returns the latest full notifications, oldest first.
func (n *fullNotifier) Recent() []FullEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]FullEvent(nil), n.recent...)
}
