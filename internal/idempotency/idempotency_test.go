package idempotency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ferrite-pay/ferrite/internal/clock"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Key{}))

	fc := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	store := NewStore(Params{DB: db, Log: zap.NewNop(), Clock: fc})
	return store, db, fc
}

func TestLookupMiss(t *testing.T) {
	store, _, _ := setupStore(t)

	_, found, err := store.Lookup(context.Background(), "key-1", uuid.New())
	require.NoError(t, err)
	require.False(t, found)
}

func TestSaveAndLookup(t *testing.T) {
	store, _, _ := setupStore(t)
	merchantID := uuid.New()
	response := []byte(`{"id":"pay_1234567890abcdef","status":"pending"}`)

	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, response))

	got, found, err := store.Lookup(context.Background(), "key-1", merchantID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, response, got)
}

func TestLookupScopedToMerchant(t *testing.T) {
	store, _, _ := setupStore(t)
	merchantID := uuid.New()

	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, []byte(`{}`)))

	_, found, err := store.Lookup(context.Background(), "key-1", uuid.New())
	require.NoError(t, err)
	require.False(t, found)
}

func TestLookupExpiredKeyIsDeleted(t *testing.T) {
	store, db, fc := setupStore(t)
	merchantID := uuid.New()

	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, []byte(`{}`)))

	fc.Advance(TTL + time.Minute)

	_, found, err := store.Lookup(context.Background(), "key-1", merchantID)
	require.NoError(t, err)
	require.False(t, found)

	var count int64
	require.NoError(t, db.Model(&Key{}).Count(&count).Error)
	require.Zero(t, count)

	// The key is free again for a fresh response.
	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, []byte(`{"fresh":true}`)))
	got, found, err := store.Lookup(context.Background(), "key-1", merchantID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte(`{"fresh":true}`), got)
}

func TestSaveDuplicateKeepsFirstResponse(t *testing.T) {
	store, _, _ := setupStore(t)
	merchantID := uuid.New()

	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, []byte(`{"first":true}`)))
	require.NoError(t, store.Save(context.Background(), "key-1", merchantID, []byte(`{"second":true}`)))

	got, found, err := store.Lookup(context.Background(), "key-1", merchantID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte(`{"first":true}`), got)
}
