package queue

import (
	"context"
	"time"
)

// Name identifies one of the three job queues. The value doubles as the Redis
// list key and the field name inside the stats hashes.
type Name string

const (
	Payments Name = "queue:payments"
	Refunds  Name = "queue:refunds"
	Webhooks Name = "queue:webhooks"
)

// Names lists every queue, used when aggregating stats.
var Names = []Name{Payments, Refunds, Webhooks}

const (
	WorkerStatusRunning = "running"
	WorkerStatusStopped = "stopped"
)

// Stats is the aggregated counter snapshot consumed by the status endpoint.
// Counters are eventually consistent observability data, not a source of truth
// for backlog size: a crash between a pop and the matching mark leaves them
// drifted from the true backlog.
type Stats struct {
	Pending      int64  `json:"pending"`
	Processing   int64  `json:"processing"`
	Completed    int64  `json:"completed"`
	Failed       int64  `json:"failed"`
	WorkerStatus string `json:"worker_status"`
}

// Queue is a FIFO job queue with coarse per-queue state counters. Each queue
// has exactly one consumer, so pop order is the only ordering guarantee.
type Queue interface {
	// Enqueue appends the payload to the tail of the queue. It never blocks.
	Enqueue(ctx context.Context, q Name, payload []byte) error

	// DequeueBlocking pops the head of the queue, waiting up to timeout.
	// The second return is false when the queue stayed empty for the full
	// timeout; that is not an error.
	DequeueBlocking(ctx context.Context, q Name, timeout time.Duration) ([]byte, bool, error)

	// MarkCompleted moves one unit of work from processing to completed.
	MarkCompleted(ctx context.Context, q Name) error

	// MarkFailed moves one unit of work from processing to failed.
	MarkFailed(ctx context.Context, q Name) error

	// Stats returns counters aggregated across all queues plus the worker
	// liveness flag.
	Stats(ctx context.Context) (Stats, error)

	// SetWorkerStatus records the worker supervisor state (running/stopped).
	SetWorkerStatus(ctx context.Context, status string) error
}
