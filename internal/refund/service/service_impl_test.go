package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	paymentrepo "github.com/ferrite-pay/ferrite/internal/payment/repository"
	"github.com/ferrite-pay/ferrite/internal/queue"
	"github.com/ferrite-pay/ferrite/internal/queue/queuetest"
	"github.com/ferrite-pay/ferrite/internal/refund/domain"
	"github.com/ferrite-pay/ferrite/internal/refund/repository"
	"github.com/ferrite-pay/ferrite/internal/refund/service"
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

func setup(t *testing.T) (domain.Service, *gorm.DB, *queuetest.Fake, *dispatcherStub) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&paymentdomain.Payment{}, &domain.Refund{}))

	fake := queuetest.New()
	stub := &dispatcherStub{}
	svc := service.NewService(service.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       repository.Provide(),
		Payments:   paymentrepo.Provide(),
		Queue:      fake,
		Dispatcher: stub,
	})
	return svc, db, fake, stub
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

func TestCreateRefund(t *testing.T) {
	svc, db, fake, stub := setup(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)

	refund, err := svc.Create(context.Background(), domain.CreateRefundRequest{
		MerchantID: payment.MerchantID,
		PaymentID:  payment.ID,
		Amount:     20000,
		Reason:     "customer request",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(refund.ID, "rfnd_"))
	require.Equal(t, domain.RefundStatusPending, refund.Status)
	require.Equal(t, []string{domain.EventRefundCreated}, stub.Events())

	raw, ok := fake.Pop(queue.Refunds)
	require.True(t, ok)
	job, err := queue.UnmarshalRefundJob(raw)
	require.NoError(t, err)
	require.Equal(t, refund.ID, job.RefundID)
}

func TestCreateRefundValidation(t *testing.T) {
	svc, db, _, _ := setup(t)
	success := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)
	pending := seedPayment(t, db, paymentdomain.PaymentStatusPending, 50000)

	cases := []struct {
		name string
		req  domain.CreateRefundRequest
		want error
	}{
		{
			name: "unknown payment",
			req:  domain.CreateRefundRequest{MerchantID: success.MerchantID, PaymentID: "pay_missing", Amount: 100},
			want: domain.ErrPaymentNotFound,
		},
		{
			name: "foreign payment",
			req:  domain.CreateRefundRequest{MerchantID: uuid.New(), PaymentID: success.ID, Amount: 100},
			want: domain.ErrPaymentNotFound,
		},
		{
			name: "payment not settled",
			req:  domain.CreateRefundRequest{MerchantID: pending.MerchantID, PaymentID: pending.ID, Amount: 100},
			want: domain.ErrPaymentNotRefundable,
		},
		{
			name: "zero amount",
			req:  domain.CreateRefundRequest{MerchantID: success.MerchantID, PaymentID: success.ID, Amount: 0},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "over payment amount",
			req:  domain.CreateRefundRequest{MerchantID: success.MerchantID, PaymentID: success.ID, Amount: 50001},
			want: domain.ErrExceedsRefundable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateRefundPendingHoldsBalance(t *testing.T) {
	svc, db, _, _ := setup(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)

	_, err := svc.Create(context.Background(), domain.CreateRefundRequest{
		MerchantID: payment.MerchantID,
		PaymentID:  payment.ID,
		Amount:     30000,
	})
	require.NoError(t, err)

	// The first refund is still pending but its amount is already held.
	_, err = svc.Create(context.Background(), domain.CreateRefundRequest{
		MerchantID: payment.MerchantID,
		PaymentID:  payment.ID,
		Amount:     30000,
	})
	require.ErrorIs(t, err, domain.ErrExceedsRefundable)

	// The remainder is still refundable.
	_, err = svc.Create(context.Background(), domain.CreateRefundRequest{
		MerchantID: payment.MerchantID,
		PaymentID:  payment.ID,
		Amount:     20000,
	})
	require.NoError(t, err)
}

func TestCreateRefundIgnoresFailedRefunds(t *testing.T) {
	svc, db, _, _ := setup(t)
	payment := seedPayment(t, db, paymentdomain.PaymentStatusSuccess, 50000)

	now := time.Now().UTC()
	failed := &domain.Refund{
		ID:         "rfnd_" + uuid.NewString()[:16],
		PaymentID:  payment.ID,
		MerchantID: payment.MerchantID,
		Amount:     50000,
		Status:     domain.RefundStatusFailed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(failed).Error)

	// A failed refund released its hold; the full amount is refundable again.
	_, err := svc.Create(context.Background(), domain.CreateRefundRequest{
		MerchantID: payment.MerchantID,
		PaymentID:  payment.ID,
		Amount:     50000,
	})
	require.NoError(t, err)
}
