package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/ferrite-pay/ferrite/internal/merchant/repository"
	"github.com/ferrite-pay/ferrite/internal/merchant/service"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Merchant{}))

	svc := service.NewService(service.Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, db
}

func seedMerchant(t *testing.T, db *gorm.DB, active bool) *domain.Merchant {
	t.Helper()

	now := time.Now().UTC()
	m := &domain.Merchant{
		ID:        uuid.New(),
		Name:      "Merchant " + uuid.NewString()[:8],
		Email:     uuid.NewString()[:8] + "@example.com",
		APIKey:    "key_" + uuid.NewString()[:8],
		APISecret: "secret_" + uuid.NewString()[:8],
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestAuthenticate(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	got, err := svc.Authenticate(context.Background(), m.APIKey, m.APISecret)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), m.APIKey, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "key_unknown", m.APISecret)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "", "")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateInactiveMerchant(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, false)

	_, err := svc.Authenticate(context.Background(), m.APIKey, m.APISecret)
	require.ErrorIs(t, err, domain.ErrInactive)
}

func TestUpdateWebhook(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	updated, err := svc.UpdateWebhook(context.Background(), domain.UpdateWebhookRequest{
		MerchantID: m.ID,
		WebhookURL: "https://merchant.example.com/hooks",
	})
	require.NoError(t, err)
	require.Equal(t, "https://merchant.example.com/hooks", updated.WebhookURL)
	// A secret is issued on first configuration.
	require.True(t, strings.HasPrefix(updated.WebhookSecret, "whsec_"))

	// Updating the URL again keeps the existing secret.
	secret := updated.WebhookSecret
	updated, err = svc.UpdateWebhook(context.Background(), domain.UpdateWebhookRequest{
		MerchantID: m.ID,
		WebhookURL: "https://merchant.example.com/hooks/v2",
	})
	require.NoError(t, err)
	require.Equal(t, secret, updated.WebhookSecret)
}

func TestUpdateWebhookRejectsBadURL(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	for _, target := range []string{"not-a-url", "ftp://example.com/hook", "https://"} {
		_, err := svc.UpdateWebhook(context.Background(), domain.UpdateWebhookRequest{
			MerchantID: m.ID,
			WebhookURL: target,
		})
		require.ErrorIs(t, err, domain.ErrInvalidWebhookURL, "url %q", target)
	}
}

func TestUpdateWebhookClearsURL(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	_, err := svc.UpdateWebhook(context.Background(), domain.UpdateWebhookRequest{
		MerchantID: m.ID,
		WebhookURL: "https://merchant.example.com/hooks",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateWebhook(context.Background(), domain.UpdateWebhookRequest{
		MerchantID: m.ID,
		WebhookURL: "",
	})
	require.NoError(t, err)
	require.Empty(t, updated.WebhookURL)
}

func TestRegenerateWebhookSecret(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	first, err := svc.RegenerateWebhookSecret(context.Background(), m.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.WebhookSecret, "whsec_"))

	second, err := svc.RegenerateWebhookSecret(context.Background(), m.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.WebhookSecret, second.WebhookSecret)
}

func TestGetByEmail(t *testing.T) {
	svc, db := setup(t)
	m := seedMerchant(t, db, true)

	got, err := svc.GetByEmail(context.Background(), m.Email)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
