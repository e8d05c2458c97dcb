package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/ferrite-pay/ferrite/internal/order/repository"
	"github.com/ferrite-pay/ferrite/internal/order/service"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setup(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	return service.NewService(service.Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestCreateOrder(t *testing.T) {
	svc := setup(t)

	order, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		MerchantID: uuid.New(),
		Amount:     50000,
		Currency:   "inr",
		Receipt:    "  receipt#42  ",
		Notes:      datatypes.JSON(`{"customer":"alice"}`),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(order.ID, "order_"))
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, "receipt#42", order.Receipt)
	require.Equal(t, domain.OrderStatusCreated, order.Status)
}

func TestCreateOrderDefaultsCurrency(t *testing.T) {
	svc := setup(t)

	order, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		MerchantID: uuid.New(),
		Amount:     domain.MinAmount,
	})
	require.NoError(t, err)
	require.Equal(t, "INR", order.Currency)
}

func TestCreateOrderRejectsSmallAmount(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		MerchantID: uuid.New(),
		Amount:     domain.MinAmount - 1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestGetOrderScopedToMerchant(t *testing.T) {
	svc := setup(t)
	merchantID := uuid.New()

	order, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		MerchantID: merchantID,
		Amount:     50000,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), merchantID, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = svc.GetByID(context.Background(), uuid.New(), order.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrdersClampsPagination(t *testing.T) {
	svc := setup(t)
	merchantID := uuid.New()

	for i := 0; i < 12; i++ {
		_, err := svc.Create(context.Background(), domain.CreateOrderRequest{
			MerchantID: merchantID,
			Amount:     50000,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListOrdersRequest{
		MerchantID: merchantID,
		Limit:      -1,
		Offset:     -1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), resp.Total)
	require.Len(t, resp.Orders, 10)
	require.Equal(t, 10, resp.Limit)
	require.Equal(t, 0, resp.Offset)

	resp, err = svc.List(context.Background(), domain.ListOrdersRequest{
		MerchantID: merchantID,
		Limit:      1000,
	})
	require.NoError(t, err)
	require.Equal(t, 10, resp.Limit)
}
