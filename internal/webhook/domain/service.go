package domain

import (
	"context"
	"errors"

	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/google/uuid"
)

// Dispatcher enqueues a signed notification for delivery. The envelope
// (event, timestamp, data) is built once at dispatch; retries post the
// identical body.
type Dispatcher interface {
	Dispatch(ctx context.Context, merchantID uuid.UUID, event string, data map[string]any) error
}

type Service interface {
	Dispatcher

	// Deliver performs one delivery attempt for a dequeued job and records
	// a log row. Undeliverable attempts (non-2xx, network failure) are not
	// errors: the retry is scheduled internally. An error is returned only
	// for faults the queue should count as failed jobs, such as a job
	// referencing a merchant that no longer exists.
	Deliver(ctx context.Context, job queue.WebhookJob) error

	List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]WebhookLog, int64, error)

	// Retry re-enqueues a logged event immediately, bypassing the retry
	// schedule. The attempt chain continues from the log's attempt count.
	Retry(ctx context.Context, merchantID uuid.UUID, logID uuid.UUID) (*WebhookLog, error)
}

var (
	ErrLogNotFound      = errors.New("webhook_log_not_found")
	ErrMerchantNotFound = errors.New("merchant_not_found")
)
