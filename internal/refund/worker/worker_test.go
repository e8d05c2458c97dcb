package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ferrite-pay/ferrite/internal/config"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	paymentrepo "github.com/ferrite-pay/ferrite/internal/payment/repository"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/queue/queuetest"
	"github.com/ferrite-pay/ferrite/internal/refund/domain"
	"github.com/ferrite-pay/ferrite/internal/refund/repository"
	"github.com/ferrite-pay/ferrite/internal/settlement"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dispatcherStub struct {
	mu     sync.Mutex
	events []string
}

func (d *dispatcherStub) Dispatch(ctx context.Context, merchantID uuid.UUID, event string, data map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *dispatcherStub) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func setupWorker(t *testing.T) (*Worker, *gorm.DB, *dispatcherStub) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&paymentdomain.Payment{}, &domain.Refund{}))

	cfg := &config.Config{
		Simulation: config.SimulationConfig{TestMode: true, ProcessingDelay: 0},
	}

	stub := &dispatcherStub{}
	w := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       repository.Provide(),
		Payments:   paymentrepo.Provide(),
		Queue:      queuetest.New(),
		Simulator:  settlement.New(cfg),
		Dispatcher: stub,
	})
	return w, db, stub
}

func seedPayment(t *testing.T, db *gorm.DB, status paymentdomain.PaymentStatus, amount int64) *paymentdomain.Payment {
	t.Helper()

	now := time.Now().UTC()
	payment := &paymentdomain.Payment{
		ID:         "pay_" + uuid.NewString()[:16],
		OrderID:    "order_" + uuid.NewString()[:16],
		MerchantID: uuid.New(),
		Amount:     amount,
		Currency:   "INR",
		Method:     paymentdomain.MethodUPI,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func seedRefund(t *testing.T, db *gorm.DB, payment *paymentdomain.Payment, status domain.RefundStatus, amount int64, reason string) *domain.Refund {
	t.Helper()

	now := time.Now().UTC()
	refund := &domain.Refund{
		ID:         "rfnd_" + uuid.NewString()[:16],
		PaymentID:  payment.ID,
		MerchantID: payment.MerchantID,
		Amount:     amount,
		Reason:     reason,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(refund).Error)
	return refund
}

func TestProcessRefund(t *testing.T) {
	w, db, stub := setupWorker(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)
	refund := seedRefund(t, db, payment, domain.RefundStatusPending, 20000, "customer request")

	w.process(context.Background(), queue.RefundJob{RefundID: refund.ID})

	var got domain.Refund
	require.NoError(t, db.First(&got, "id = ?", refund.ID).Error)
	require.Equal(t, domain.RefundStatusProcessed, got.Status)
	require.NotNil(t, got.ProcessedAt)
	require.Equal(t, "customer request", got.Reason)
	require.Equal(t, []string{domain.EventRefundProcessed}, stub.Events())
}

func TestProcessRefundPaymentNotSuccess(t *testing.T) {
	w, db, stub := setupWorker(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusPending, 50000)
	refund := seedRefund(t, db, payment, domain.RefundStatusPending, 20000, "")

	w.process(context.Background(), queue.RefundJob{RefundID: refund.ID})

	var got domain.Refund
	require.NoError(t, db.First(&got, "id = ?", refund.ID).Error)
	require.Equal(t, domain.RefundStatusFailed, got.Status)
	require.Equal(t, "Failed: Payment is not in 'success' state", got.Reason)
	require.Nil(t, got.ProcessedAt)

	// Rejected refunds never notify the merchant.
	require.Empty(t, stub.Events())
}

func TestProcessRefundOverdraw(t *testing.T) {
	w, db, stub := setupWorker(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)

	// Another refund already took most of the balance after this one was
	// enqueued; the worker's re-check has to catch it.
	seedRefund(t, db, payment, domain.RefundStatusProcessed, 40000, "")
	refund := seedRefund(t, db, payment, domain.RefundStatusPending, 20000, "duplicate shipment")

	w.process(context.Background(), queue.RefundJob{RefundID: refund.ID})

	var got domain.Refund
	require.NoError(t, db.First(&got, "id = ?", refund.ID).Error)
	require.Equal(t, domain.RefundStatusFailed, got.Status)
	require.Equal(t, "duplicate shipment | Failed: Refund amount exceeds available payment amount", got.Reason)
	require.Empty(t, stub.Events())
}

func TestProcessRefundExcludesSelfFromBalance(t *testing.T) {
	w, db, _ := setupWorker(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)

	// A pending full refund must not count its own amount against the balance.
	refund := seedRefund(t, db, payment, domain.RefundStatusPending, 50000, "")

	w.process(context.Background(), queue.RefundJob{RefundID: refund.ID})

	var got domain.Refund
	require.NoError(t, db.First(&got, "id = ?", refund.ID).Error)
	require.Equal(t, domain.RefundStatusProcessed, got.Status)
}

func TestProcessRedeliveredRefund(t *testing.T) {
	w, db, stub := setupWorker(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)
	refund := seedRefund(t, db, payment, domain.RefundStatusProcessed, 20000, "")

	w.process(context.Background(), queue.RefundJob{RefundID: refund.ID})

	require.Empty(t, stub.Events())
}
