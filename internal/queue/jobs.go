package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaymentJob asks the payment worker to settle one payment.
type PaymentJob struct {
	PaymentID string    `json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RefundJob asks the refund worker to settle one refund.
type RefundJob struct {
	RefundID  string    `json:"refund_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WebhookJob asks the webhook worker to deliver one signed notification.
// PayloadData is the fully built envelope JSON; retries carry it unchanged so
// every attempt of a logical event posts the identical body. Attempts counts
// delivery attempts already made for this event.
type WebhookJob struct {
	MerchantID  uuid.UUID `json:"merchant_id"`
	EventType   string    `json:"event_type"`
	PayloadData string    `json:"payload_data"`
	CreatedAt   time.Time `json:"created_at"`
	Attempts    int       `json:"attempts"`
}

func (j PaymentJob) Marshal() ([]byte, error) { return json.Marshal(j) }
func (j RefundJob) Marshal() ([]byte, error)  { return json.Marshal(j) }
func (j WebhookJob) Marshal() ([]byte, error) { return json.Marshal(j) }

func UnmarshalPaymentJob(payload []byte) (PaymentJob, error) {
	var job PaymentJob
	err := json.Unmarshal(payload, &job)
	return job, err
}

func UnmarshalRefundJob(payload []byte) (RefundJob, error) {
	var job RefundJob
	err := json.Unmarshal(payload, &job)
	return job, err
}

func UnmarshalWebhookJob(payload []byte) (WebhookJob, error) {
	var job WebhookJob
	err := json.Unmarshal(payload, &job)
	return job, err
}
