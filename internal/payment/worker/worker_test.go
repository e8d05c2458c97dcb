package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ferrite-pay/ferrite/internal/config"
	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	orderrepo "github.com/ferrite-pay/ferrite/internal/order/repository"
	"github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/payment/repository"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/queue/queuetest"
	"github.com/ferrite-pay/ferrite/internal/settlement"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dispatched struct {
	merchantID uuid.UUID
	event      string
	data       map[string]any
}

type dispatcherStub struct {
	mu     sync.Mutex
	events []dispatched
}

func (d *dispatcherStub) Dispatch(ctx context.Context, merchantID uuid.UUID, event string, data map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatched{merchantID: merchantID, event: event, data: data})
	return nil
}

func (d *dispatcherStub) Events() []dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatched(nil), d.events...)
}

func setupWorker(t *testing.T, succeeds bool) (*Worker, *gorm.DB, *queuetest.Fake, *dispatcherStub) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderdomain.Order{}, &domain.Payment{}))

	cfg := &config.Config{
		Simulation: config.SimulationConfig{
			TestMode:        true,
			ProcessingDelay: 0,
			PaymentSucceeds: succeeds,
		},
	}

	fake := queuetest.New()
	stub := &dispatcherStub{}
	w := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       repository.Provide(),
		Orders:     orderrepo.Provide(),
		Queue:      fake,
		Simulator:  settlement.New(cfg),
		Dispatcher: stub,
	})
	return w, db, fake, stub
}

func seedOrderWithPayment(t *testing.T, db *gorm.DB, status domain.PaymentStatus) (*orderdomain.Order, *domain.Payment) {
	t.Helper()

	now := time.Now().UTC()
	order := &orderdomain.Order{
		ID:         "order_" + uuid.NewString()[:16],
		MerchantID: uuid.New(),
		Amount:     50000,
		Currency:   "INR",
		Status:     orderdomain.OrderStatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(order).Error)

	vpa := "buyer@okhdfc"
	payment := &domain.Payment{
		ID:         "pay_" + uuid.NewString()[:16],
		OrderID:    order.ID,
		MerchantID: order.MerchantID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Method:     domain.MethodUPI,
		VPA:        &vpa,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(payment).Error)
	return order, payment
}

func TestProcessSettlesSuccessfully(t *testing.T) {
	w, db, fake, stub := setupWorker(t, true)
	order, payment := seedOrderWithPayment(t, db, domain.PaymentStatusPending)

	w.process(context.Background(), queue.PaymentJob{PaymentID: payment.ID})

	var got domain.Payment
	require.NoError(t, db.First(&got, "id = ?", payment.ID).Error)
	require.Equal(t, domain.PaymentStatusSuccess, got.Status)
	require.Nil(t, got.ErrorCode)

	var gotOrder orderdomain.Order
	require.NoError(t, db.First(&gotOrder, "id = ?", order.ID).Error)
	require.Equal(t, orderdomain.OrderStatusPaid, gotOrder.Status)

	events := stub.Events()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventPaymentSuccess, events[0].event)
	require.Equal(t, payment.MerchantID, events[0].merchantID)

	data, ok := events[0].data["payment"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, payment.ID, data["id"])

	stats, err := fake.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Completed)
}

func TestProcessDeclinesPayment(t *testing.T) {
	w, db, _, stub := setupWorker(t, false)
	order, payment := seedOrderWithPayment(t, db, domain.PaymentStatusPending)

	w.process(context.Background(), queue.PaymentJob{PaymentID: payment.ID})

	var got domain.Payment
	require.NoError(t, db.First(&got, "id = ?", payment.ID).Error)
	require.Equal(t, domain.PaymentStatusFailed, got.Status)
	require.NotNil(t, got.ErrorCode)
	require.Equal(t, domain.ErrorCodeDeclined, *got.ErrorCode)
	require.NotNil(t, got.ErrorDescription)
	require.Equal(t, domain.ErrorDescriptionDeclined, *got.ErrorDescription)

	var gotOrder orderdomain.Order
	require.NoError(t, db.First(&gotOrder, "id = ?", order.ID).Error)
	require.Equal(t, orderdomain.OrderStatusFailed, gotOrder.Status)

	events := stub.Events()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventPaymentFailed, events[0].event)
}

func TestProcessUnknownPayment(t *testing.T) {
	w, _, fake, stub := setupWorker(t, true)

	w.process(context.Background(), queue.PaymentJob{PaymentID: "pay_does_not_exist"})

	require.Empty(t, stub.Events())
	stats, err := fake.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Failed)
}

func TestProcessRedeliveredJob(t *testing.T) {
	w, db, fake, stub := setupWorker(t, true)
	_, payment := seedOrderWithPayment(t, db, domain.PaymentStatusSuccess)

	w.process(context.Background(), queue.PaymentJob{PaymentID: payment.ID})

	// Already settled: no second settlement, no second webhook.
	require.Empty(t, stub.Events())
	stats, err := fake.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Completed)
}
