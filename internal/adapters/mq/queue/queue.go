// Package queue defines the contract for enqueuing and consuming telemetry frames.
//
// The in-memory implementation is a bounded channel; a full queue refuses
// new frames instead of blocking the producer.
package queue

import (
	"context"
	"sync"

	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/okian/chargegauge/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Frame is the payload type flowing through the queue.
type Frame = trigger.Frame

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a frame to the queue.
	// Returns false if the queue is full or closed and the frame was not enqueued.
	Enqueue(ctx context.Context, f Frame) bool

	// Dequeue returns a channel that will receive frames as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Frame

	// Len returns the current number of queued frames.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	frames   chan Frame
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.frames = make(chan Frame, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a frame to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, f Frame) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordFrameDropped("closed")
		return false
	}

	if len(q.frames) >= q.capacity {
		metrics.RecordFrameDropped("capacity_exceeded")
		return false
	}

	select {
	case q.frames <- f:
		metrics.UpdateQueueSize(len(q.frames))
		return true
	case <-ctx.Done():
		metrics.RecordFrameDropped("context_cancelled")
		return false
	default:
		metrics.RecordFrameDropped("queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive frames as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Frame {
	out := make(chan Frame)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-q.frames:
				if !ok {
					return
				}
				select {
				case out <- f:
					metrics.UpdateQueueSize(len(q.frames))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued frames.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.frames)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the maximum number of frames the queue accepts.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.frames)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
