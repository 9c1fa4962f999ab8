package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/chargegauge/internal/domain/trigger"
)

func frame(id string, recast float64) Frame {
	return trigger.Frame{
		ID:      id,
		Recasts: map[uint32]float64{7421: recast},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, frame("f1", 12)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "f1" {
		t.Errorf("expected f1, got %v", got.ID)
	}
	if v, ok := got.Recast(7421); !ok || v != 12 {
		t.Errorf("expected recast 12 to survive the queue, got %v (%v)", v, ok)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2), WithCapacity(0))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, frame("f1", 1)) || !q.Enqueue(ctx, frame("f2", 2)) {
		t.Fatal("expected first two enqueues to succeed")
	}
	if q.Enqueue(ctx, frame("f3", 3)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 5; i++ {
		q.Enqueue(ctx, frame(fmt.Sprintf("f%d", i), float64(i)))
	}

	out := q.Dequeue(ctx)
	for i := 0; i < 5; i++ {
		got := <-out
		if want := fmt.Sprintf("f%d", i); got.ID != want {
			t.Fatalf("expected %s, got %s", want, got.ID)
		}
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers = 10
	const perProducer = 100

	var consumed sync.WaitGroup
	consumed.Add(producers * perProducer)
	go func() {
		for range q.Dequeue(ctx) {
			consumed.Done()
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for !q.Enqueue(ctx, frame(fmt.Sprintf("f%d_%d", id, j), float64(j))) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}
	wg.Wait()

	done := make(chan struct{})
	go func() {
		consumed.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain the queue")
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, frame("f1", 1)) || !q.Enqueue(ctx, frame("f2", 2)) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, frame("f3", 3)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered frames still drain before the channel closes.
	var drained []string
	timeout := time.After(time.Second)
	out := q.Dequeue(ctx)
	for {
		select {
		case f, ok := <-out:
			if !ok {
				if len(drained) != 2 {
					t.Errorf("expected 2 drained frames, got %v", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained = append(drained, f.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}

func TestInMemoryQueue_CancelledDequeue(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx, cancel := context.WithCancel(context.Background())
	out := q.Dequeue(ctx)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected no frame after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue channel not closed after cancel")
	}
}
