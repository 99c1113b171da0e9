package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/partner-portal/internal/migrations"
	"github.com/magabrotheeeer/partner-portal/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err, "failed to connect")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, migrationsPath)
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory создаёт тестовые данные.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreatePartner регистрирует партнёра и, если commission не пустая, задаёт комиссию.
func (f *TestDataFactory) CreatePartner(t *testing.T, email, commission string) *models.Partner {
	t.Helper()
	ctx := context.Background()
	p, err := f.storage.RegisterPartner(ctx,
		models.User{Email: email},
		models.Partner{
			FirstName:   "Иван",
			LastName:    "Петров",
			Phone:       "+79990000000",
			INN:         "7707083893",
			CompanyName: "ООО Ромашка",
		})
	require.NoError(t, err)

	if commission != "" {
		require.NoError(t, f.storage.SetCommission(ctx, email, decimal.RequireFromString(commission)))
	}
	p, err = f.storage.GetPartner(ctx, p.ID)
	require.NoError(t, err)
	return p
}

// TestVerification проверяет состояние базы.
type TestVerification struct {
	storage *Storage
}

func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// SubscriptionCount возвращает число подписок партнёра.
func (v *TestVerification) SubscriptionCount(t *testing.T, partnerID int64) int {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE partner_id = $1", partnerID).Scan(&count)
	require.NoError(t, err)
	return count
}

// Debt возвращает текущую задолженность партнёра.
func (v *TestVerification) Debt(t *testing.T, partnerID int64) decimal.Decimal {
	t.Helper()
	var debt decimal.Decimal
	err := v.storage.DB.QueryRow("SELECT debt FROM partners WHERE id = $1", partnerID).Scan(&debt)
	require.NoError(t, err)
	return debt
}
