// Package queuetest provides an in-memory Queue used by worker and handler
// tests so they run without Redis. Counter semantics mirror the Redis
// implementation exactly.
package queuetest

import (
	"context"
	"sync"
	"time"

	"github.com/ferrite-pay/ferrite/internal/queue"
)

type Fake struct {
	mu           sync.Mutex
	items        map[queue.Name][][]byte
	signal       chan struct{}
	pending      map[queue.Name]int64
	processing   map[queue.Name]int64
	completed    map[queue.Name]int64
	failed       map[queue.Name]int64
	workerStatus string
}

func New() *Fake {
	return &Fake{
		items:        make(map[queue.Name][][]byte),
		signal:       make(chan struct{}, 1),
		pending:      make(map[queue.Name]int64),
		processing:   make(map[queue.Name]int64),
		completed:    make(map[queue.Name]int64),
		failed:       make(map[queue.Name]int64),
		workerStatus: queue.WorkerStatusStopped,
	}
}

func (f *Fake) Enqueue(ctx context.Context, q queue.Name, payload []byte) error {
	_ = ctx
	f.mu.Lock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	f.items[q] = append(f.items[q], buf)
	f.pending[q]++
	f.mu.Unlock()

	select {
	case f.signal <- struct{}{}:
	default:
	}
	return nil
}

func (f *Fake) DequeueBlocking(ctx context.Context, q queue.Name, timeout time.Duration) ([]byte, bool, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		f.mu.Lock()
		if len(f.items[q]) > 0 {
			head := f.items[q][0]
			f.items[q] = f.items[q][1:]
			f.pending[q]--
			f.processing[q]++
			f.mu.Unlock()
			return head, true, nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-deadline.C:
			return nil, false, nil
		case <-f.signal:
		}
	}
}

func (f *Fake) MarkCompleted(ctx context.Context, q queue.Name) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing[q]--
	f.completed[q]++
	return nil
}

func (f *Fake) MarkFailed(ctx context.Context, q queue.Name) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing[q]--
	f.failed[q]++
	return nil
}

func (f *Fake) Stats(ctx context.Context) (queue.Stats, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := queue.Stats{WorkerStatus: f.workerStatus}
	for _, q := range queue.Names {
		stats.Pending += f.pending[q]
		stats.Processing += f.processing[q]
		stats.Completed += f.completed[q]
		stats.Failed += f.failed[q]
	}
	return stats, nil
}

func (f *Fake) SetWorkerStatus(ctx context.Context, status string) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workerStatus = status
	return nil
}

// Len reports the number of queued payloads, for test assertions.
func (f *Fake) Len(q queue.Name) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[q])
}

// Pop removes and returns the head payload without touching counters, for
// test assertions on enqueued envelopes.
func (f *Fake) Pop(q queue.Name) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items[q]) == 0 {
		return nil, false
	}
	head := f.items[q][0]
	f.items[q] = f.items[q][1:]
	f.pending[q]--
	return head, true
}
